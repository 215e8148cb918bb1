package icv6

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/itohio/reeflight/pkg/config"
	"github.com/itohio/reeflight/pkg/program"
)

// Mock simulates a light controller for testing and development.
type Mock struct {
	cfg *config.MockConfig

	mu        sync.RWMutex
	mode      program.Mode
	intensity program.Intensity
	preview   *program.Intensity
	program   program.Program
	uploads   int
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			Mode:    string(program.ModeAuto),
			Latency: 0,
		}
	}

	mode := program.Mode(cfg.Mode)
	if !mode.Valid() {
		mode = program.ModeAuto
	}

	return &Mock{
		cfg:     cfg,
		mode:    mode,
		program: program.Program{Points: []program.ProgramPoint{}},
	}
}

func (m *Mock) wait(ctx context.Context) error {
	if m.cfg.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.cfg.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// QueryMode returns the simulated mode.
func (m *Mock) QueryMode(ctx context.Context) (program.Mode, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode, nil
}

// SetMode sets the simulated mode. Leaving manual mode ends a preview.
func (m *Mock) SetMode(ctx context.Context, mode program.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q", mode)
	}
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	m.preview = nil
	return nil
}

// QueryIntensity returns the stored manual intensity.
func (m *Mock) QueryIntensity(ctx context.Context) (program.Intensity, error) {
	if err := m.wait(ctx); err != nil {
		return program.Intensity{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.intensity, nil
}

// SetIntensity stores the manual intensity.
func (m *Mock) SetIntensity(ctx context.Context, in program.Intensity) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intensity = in
	m.preview = nil
	return nil
}

// PreviewIntensity records a temporary output level.
func (m *Mock) PreviewIntensity(ctx context.Context, in program.Intensity) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preview = &in
	return nil
}

// Preview returns the last previewed intensity, if any.
func (m *Mock) Preview() (program.Intensity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.preview == nil {
		return program.Intensity{}, false
	}
	return *m.preview, true
}

// QueryProgram returns the stored program ordered by index, like the wire
// encoding does.
func (m *Mock) QueryProgram(ctx context.Context) (program.Program, error) {
	if err := m.wait(ctx); err != nil {
		return program.Program{}, err
	}
	m.mu.RLock()
	payload := encodeProgram(m.program)
	m.mu.RUnlock()
	return decodeProgram(payload)
}

// SetProgram stores p and acknowledges with 1.
func (m *Mock) SetProgram(ctx context.Context, p program.Program) (byte, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.program = program.Program{Points: slices.Clone(p.Points)}
	m.uploads++
	return 1, nil
}

// Uploads returns how many programs were stored.
func (m *Mock) Uploads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploads
}
