package icv6

import (
	"context"

	"github.com/itohio/reeflight/pkg/program"
)

// Device defines the interface for light controllers (real or mocked).
type Device interface {
	QueryMode(ctx context.Context) (program.Mode, error)
	SetMode(ctx context.Context, mode program.Mode) error
	QueryIntensity(ctx context.Context) (program.Intensity, error)
	SetIntensity(ctx context.Context, in program.Intensity) error
	PreviewIntensity(ctx context.Context, in program.Intensity) error
	QueryProgram(ctx context.Context) (program.Program, error)
	SetProgram(ctx context.Context, p program.Program) (ack byte, err error)
}

// Ensure Client implements Device.
var _ Device = (*Client)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
