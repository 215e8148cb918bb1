package icv6

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingDevice fails every query.
type failingDevice struct {
	*Mock
	err error
}

func (d failingDevice) QueryMode(ctx context.Context) (program.Mode, error) {
	return "", d.err
}

func TestVerify(t *testing.T) {
	stored := program.FromPoints([]program.Point{
		program.NewPoint(480, 0, 0, 0, 0),
		program.NewPoint(720, 100, 90, 80, 70),
	})
	other := program.FromPoints([]program.Point{program.NewPoint(480, 5, 0, 0, 0)})

	tests := []struct {
		name       string
		mode       program.Mode
		expected   *program.Program
		wantStatus Status
		wantReason string
	}{
		{"no program", program.ModeAuto, nil, StatusSkipped, ReasonNoActiveProgram},
		{"empty program", program.ModeAuto, &program.Program{}, StatusSkipped, ReasonNoActiveProgram},
		{"manual mode", program.ModeManual, &stored, StatusSkipped, ReasonNotInAutoMode},
		{"match", program.ModeAuto, &stored, StatusOK, ""},
		{"mismatch", program.ModeAuto, &other, StatusMismatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dev := NewMock(nil)
			_, err := dev.SetProgram(ctx, stored)
			require.NoError(t, err)
			require.NoError(t, dev.SetMode(ctx, tt.mode))

			res, err := Verify(ctx, dev, tt.expected)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.False(t, res.CheckedAt.IsZero())
			if tt.wantStatus == StatusOK || tt.wantStatus == StatusMismatch {
				require.NotNil(t, res.Reported)
				assert.Equal(t, stored, *res.Reported)
			}
		})
	}
}

func TestVerify_DeviceError(t *testing.T) {
	boom := errors.New("boom")
	prog := program.FromPoints([]program.Point{program.NewPoint(60, 1, 1, 1, 1)})

	res, err := Verify(context.Background(), failingDevice{Mock: NewMock(nil), err: boom}, &prog)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "boom", res.Error)
}

func TestMonitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var results []Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		Monitor(ctx, NewMock(nil), time.Minute, func() *program.Program { return nil }, func(r Result) {
			results = append(results, r)
			cancel()
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
	require.Len(t, results, 1)
	assert.Equal(t, StatusSkipped, results[0].Status)
}
