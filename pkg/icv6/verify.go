package icv6

import (
	"context"
	"slices"
	"time"

	"github.com/itohio/reeflight/pkg/program"
)

// Status is the outcome of a program verification.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMismatch Status = "mismatch"
	StatusSkipped  Status = "skipped"
	StatusError    Status = "error"
)

// Reasons given with StatusSkipped.
const (
	ReasonNoActiveProgram = "no_active_program"
	ReasonNotInAutoMode   = "device_not_in_auto_mode"
)

// Result describes one verification run.
type Result struct {
	CheckedAt time.Time        `yaml:"checked_at"`
	Status    Status           `yaml:"status"`
	Reason    string           `yaml:"reason,omitempty"`
	Mode      program.Mode     `yaml:"mode,omitempty"`
	Expected  *program.Program `yaml:"expected,omitempty"`
	Reported  *program.Program `yaml:"reported,omitempty"`
	Error     string           `yaml:"error,omitempty"`
}

// Verify compares the program stored on dev with expected. A nil or empty
// expected program and a device outside automatic mode are skipped. Device
// errors are returned and also reported as StatusError.
func Verify(ctx context.Context, dev Device, expected *program.Program) (Result, error) {
	res := Result{CheckedAt: time.Now()}

	if expected == nil || len(expected.Points) == 0 {
		res.Status = StatusSkipped
		res.Reason = ReasonNoActiveProgram
		return res, nil
	}

	mode, err := dev.QueryMode(ctx)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res, err
	}
	res.Mode = mode
	if mode != program.ModeAuto {
		res.Status = StatusSkipped
		res.Reason = ReasonNotInAutoMode
		return res, nil
	}

	reported, err := dev.QueryProgram(ctx)
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		return res, err
	}

	res.Expected = expected
	res.Reported = &reported
	res.Status = StatusMismatch
	if slices.Equal(reported.Points, expected.Points) {
		res.Status = StatusOK
	}
	return res, nil
}

// Monitor verifies the program returned by target every interval until ctx is
// done and hands each result to record. Errors do not stop the loop.
func Monitor(ctx context.Context, dev Device, interval time.Duration, target func() *program.Program, record func(Result)) {
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := Verify(ctx, dev, target())
		if err != nil {
			log.Errorf("Program verification failed: %v", err)
		} else {
			log.Debugf("Program verification: %s %s", res.Status, res.Reason)
		}
		if ctx.Err() != nil {
			return
		}
		record(res)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
