package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decred/slog"
	"github.com/itohio/reeflight/pkg/chart"
	"github.com/itohio/reeflight/pkg/config"
	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/store"
	"github.com/itohio/reeflight/pkg/table"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

// Write writes the data in p to standard out and the log rotator.
func (logWriter) Write(p []byte) (n int, err error) {
	if logRotator == nil {
		return os.Stdout.Write(p)
	}
	os.Stdout.Write(p)
	return logRotator.Write(p)
}

var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs. Use initLogRotator to set it.
	// It should be closed on application shutdown.
	logRotator *rotator.Rotator

	log      = backendLog.Logger("MAIN")
	chartLog = backendLog.Logger("CHRT")
	tableLog = backendLog.Logger("TABL")
	cfgLog   = backendLog.Logger("CONF")
	devLog   = backendLog.Logger("ICV6")
	dbLog    = backendLog.Logger("DB")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"MAIN": log,
	"CHRT": chartLog,
	"TABL": tableLog,
	"CONF": cfgLog,
	"ICV6": devLog,
	"DB":   dbLog,
}

func init() {
	chart.UseLogger(chartLog)
	table.UseLogger(tableLog)
	config.UseLogger(cfgLog)
	icv6.UseLogger(devLog)
	store.UseLogger(dbLog)
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string, maxRolls int) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 32*1024, false, maxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// parseDebugLevels accepts either a single level applied to every subsystem
// or a comma separated list of SUBSYS=level pairs.
func parseDebugLevels(debugLevel string) (map[string]slog.Level, error) {
	levels := make(map[string]slog.Level)
	if !strings.Contains(debugLevel, "=") {
		level, ok := slog.LevelFromString(debugLevel)
		if !ok {
			return nil, fmt.Errorf("invalid debug level %q", debugLevel)
		}
		for subsysID := range subsystemLoggers {
			levels[subsysID] = level
		}
		return levels, nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		subsysID, levelStr, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid subsystem level pair %q", pair)
		}
		if _, exists := subsystemLoggers[subsysID]; !exists {
			return nil, fmt.Errorf("the specified subsystem [%v] is invalid -- supported subsystems %v",
				subsysID, supportedSubsystems())
		}
		level, ok := slog.LevelFromString(levelStr)
		if !ok {
			return nil, fmt.Errorf("invalid debug level %q for %s", levelStr, subsysID)
		}
		levels[subsysID] = level
	}
	return levels, nil
}

func validateDebugLevels(debugLevel string) error {
	_, err := parseDebugLevels(debugLevel)
	return err
}

// parseAndSetDebugLevels parses debugLevel and applies it. Nothing changes
// when any part of it is invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	levels, err := parseDebugLevels(debugLevel)
	if err != nil {
		return err
	}
	for subsysID, level := range levels {
		subsystemLoggers[subsysID].SetLevel(level)
	}
	return nil
}
