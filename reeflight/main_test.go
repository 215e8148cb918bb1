package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/decred/slog"
	"github.com/itohio/reeflight/pkg/config"
	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsApply(t *testing.T) {
	cfg := config.Default()
	opts := options{Transport: config.TransportSerial, Port: "/dev/ttyUSB1"}
	opts.apply(cfg)

	assert.Equal(t, config.TransportSerial, cfg.Device.Transport)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Device.Serial.Port)
	assert.Equal(t, config.Default().Device.Host, cfg.Device.Host, "empty overrides keep the file value")
}

func TestParseDebugLevels(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]slog.Level
		wantErr bool
	}{
		{name: "single", in: "debug", want: map[string]slog.Level{
			"MAIN": slog.LevelDebug, "CHRT": slog.LevelDebug, "TABL": slog.LevelDebug,
			"CONF": slog.LevelDebug, "ICV6": slog.LevelDebug, "DB": slog.LevelDebug,
		}},
		{name: "pairs", in: "ICV6=trace, DB=warn", want: map[string]slog.Level{
			"ICV6": slog.LevelTrace, "DB": slog.LevelWarn,
		}},
		{name: "bad level", in: "loud", wantErr: true},
		{name: "bad subsystem", in: "NOPE=info", wantErr: true},
		{name: "bad pair", in: "ICV6=info,DB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDebugLevels(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, validateDebugLevels(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAndSetDebugLevels(t *testing.T) {
	t.Cleanup(func() { _ = parseAndSetDebugLevels("info") })

	require.NoError(t, parseAndSetDebugLevels("DB=debug"))
	assert.Equal(t, slog.LevelDebug, dbLog.Level())

	assert.Error(t, parseAndSetDebugLevels("DB=trace,NOPE=info"))
	assert.Equal(t, slog.LevelDebug, dbLog.Level(), "invalid input changes nothing")
}

func TestProgramFileRoundTrip(t *testing.T) {
	prog := program.FromPoints([]program.Point{
		program.NewPoint(8*60, 0, 10, 20, 0),
		program.NewPoint(12*60+30, 80, 90, 100, 40),
	})

	var buf bytes.Buffer
	require.NoError(t, encodeProgram(&buf, prog))
	assert.Contains(t, buf.String(), "hour: 12")

	got, err := decodeProgram(&buf)
	require.NoError(t, err)
	assert.Equal(t, prog, got)
}

func TestDecodeProgramErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "syntax", in: "points: [\n"},
		{name: "hour", in: "points:\n  - {index: 1, hour: 24, minute: 0}\n"},
		{name: "intensity", in: "points:\n  - {index: 1, hour: 1, minute: 0, ch2: 101}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeProgram(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestCloneConfig(t *testing.T) {
	cfg := config.Default()
	next := cloneConfig(cfg)
	next.Chart.Channels[0].Label = "changed"
	next.Device.Host = "10.9.9.9"

	assert.Equal(t, config.DefaultChannels[0].Label, cfg.Chart.Channels[0].Label)
	assert.Equal(t, config.Default().Device.Host, cfg.Device.Host)
}
