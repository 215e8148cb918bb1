package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/program"
	"github.com/itohio/reeflight/pkg/store"
)

// deviceCall runs fn against the current device off the UI goroutine and
// reports failures in a dialog. done runs on the UI goroutine after success.
func (s *appState) deviceCall(what string, fn func(ctx context.Context, dev icv6.Device) error, done func()) {
	dev := s.device
	timeout := 4 * s.cfg.Device.Timeout
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, timeout)
		defer cancel()

		err := fn(ctx, dev)
		fyne.Do(func() {
			if err != nil {
				log.Errorf("Failed to %s: %v", what, err)
				dialog.ShowError(fmt.Errorf("failed to %s: %w", what, err), s.window)
				return
			}
			if done != nil {
				done()
			}
		})
	}()
}

// pullProgram replaces the rows with the program stored on the device.
func (s *appState) pullProgram() {
	if s.rows.Dirty() {
		dialog.ShowConfirm("Discard changes", "Replace the edited program with the one on the device?",
			func(ok bool) {
				if ok {
					s.doPullProgram()
				}
			}, s.window)
		return
	}
	s.doPullProgram()
}

func (s *appState) doPullProgram() {
	var (
		mode program.Mode
		prog program.Program
	)
	s.deviceCall("read program", func(ctx context.Context, dev icv6.Device) error {
		var err error
		if mode, err = dev.QueryMode(ctx); err != nil {
			return err
		}
		prog, err = dev.QueryProgram(ctx)
		return err
	}, func() {
		s.showMode(mode)
		s.rows.Load(prog.ToPoints())
		s.setStatus("Read %d program points, device in %s mode", len(prog.Points), mode)
	})
}

// pushProgram uploads the edited rows and makes them the active target.
func (s *appState) pushProgram() {
	s.rows.Normalize()
	prog := s.rows.Program()
	if err := prog.Validate(); err != nil {
		dialog.ShowError(err, s.window)
		return
	}
	if len(prog.Points) == 0 {
		dialog.ShowInformation("Upload program", "The program has no points.", s.window)
		return
	}

	var ack byte
	s.deviceCall("upload program", func(ctx context.Context, dev icv6.Device) error {
		var err error
		if ack, err = dev.SetProgram(ctx, prog); err != nil {
			return err
		}
		return s.db.SetActiveTarget(store.ActiveTarget{Mode: program.ModeAuto, Program: &prog})
	}, func() {
		s.rows.MarkSaved()
		s.setStatus("Uploaded %d program points (ack %d)", len(prog.Points), ack)
		s.verifyProgram()
	})
}

// verifyProgram compares the device program with the active target once.
func (s *appState) verifyProgram() {
	expected := s.db.ActiveProgram()
	var res icv6.Result
	s.deviceCall("verify program", func(ctx context.Context, dev icv6.Device) error {
		var err error
		res, err = icv6.Verify(ctx, dev, expected)
		if dbErr := s.db.AddValidationRun(res); dbErr != nil {
			log.Errorf("Failed to record validation run: %v", dbErr)
		}
		return err
	}, func() {
		s.showValidation(res)
	})
}

// restartMonitor restarts periodic verification with the stored polling settings.
func (s *appState) restartMonitor() {
	if s.monitorCancel != nil {
		s.monitorCancel()
		s.monitorCancel = nil
	}

	polling, err := s.db.ValidationPolling()
	if err != nil {
		log.Errorf("Failed to read validation polling: %v", err)
		return
	}
	if !polling.Enabled {
		log.Infof("Program verification polling disabled")
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.monitorCancel = cancel
	go icv6.Monitor(ctx, s.device, polling.Interval, s.db.ActiveProgram, func(res icv6.Result) {
		if err := s.db.AddValidationRun(res); err != nil {
			log.Errorf("Failed to record validation run: %v", err)
		}
		fyne.Do(func() { s.showValidation(res) })
	})
}

func (s *appState) showValidation(res icv6.Result) {
	when := res.CheckedAt.Format(time.TimeOnly)
	switch res.Status {
	case icv6.StatusOK:
		s.setStatus("Program OK - %s", when)
	case icv6.StatusMismatch:
		s.setStatus("Invalid program on device - %s", when)
	case icv6.StatusSkipped:
		s.setStatus("Validation skipped (%s) - %s", res.Reason, when)
	default:
		s.setStatus("Validation failed: %s - %s", res.Error, when)
	}
}

// setMode switches the device mode and records it in the active target.
func (s *appState) setMode(mode program.Mode) {
	if !mode.Valid() {
		return
	}
	s.deviceCall("set mode", func(ctx context.Context, dev icv6.Device) error {
		if err := dev.SetMode(ctx, mode); err != nil {
			return err
		}
		return s.db.UpdateTargetMode(mode)
	}, func() {
		s.setStatus("Device switched to %s mode", mode)
	})
}

// showMode selects mode in the toolbar without sending it back to the device.
func (s *appState) showMode(mode program.Mode) {
	onChanged := s.modeSelect.OnChanged
	s.modeSelect.OnChanged = nil
	s.modeSelect.SetSelected(string(mode))
	s.modeSelect.OnChanged = onChanged
}

// previewRow shows the intensities of a row on the device without storing them.
func (s *appState) previewRow(p program.Point) {
	in := program.IntensityOf(p)
	s.deviceCall("preview intensity", func(ctx context.Context, dev icv6.Device) error {
		return dev.PreviewIntensity(ctx, in)
	}, func() {
		s.setStatus("Previewing %s", program.FormatClock(p.Time))
	})
}

// showManualDialog edits and applies the manual intensity, starting from what
// the device currently shows.
func (s *appState) showManualDialog() {
	s.manualDialog(nil)
}

// manualDialog edits and applies the manual intensity. A nil initial value is
// read from the device.
func (s *appState) manualDialog(initial *program.Intensity) {
	values := make([]binding.Float, program.NumChannels)
	items := make([]*widget.FormItem, 0, program.NumChannels)
	labels := s.cfg.Chart.ChannelLabels()
	for i := range values {
		values[i] = binding.NewFloat()
		slider := widget.NewSliderWithData(0, program.MaxIntensity, values[i])
		slider.Step = 1
		value := widget.NewLabelWithData(binding.FloatToStringWithFormat(values[i], "%.0f %%"))
		items = append(items, widget.NewFormItem(labels[i], container.NewBorder(nil, nil, nil, value, slider)))
	}

	intensity := func() program.Intensity {
		var ch [program.NumChannels]int
		for i, v := range values {
			f, _ := v.Get()
			ch[i] = program.RoundIntensity(f)
		}
		return program.Intensity{Ch1: ch[0], Ch2: ch[1], Ch3: ch[2], Ch4: ch[3]}
	}

	d := dialog.NewForm("Manual intensity", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		in := intensity()
		s.deviceCall("set intensity", func(ctx context.Context, dev icv6.Device) error {
			if err := dev.SetIntensity(ctx, in); err != nil {
				return err
			}
			return s.db.SetActiveTarget(store.ActiveTarget{Mode: program.ModeManual, Intensity: &in})
		}, func() {
			s.setStatus("Manual intensity %d/%d/%d/%d applied", in.Ch1, in.Ch2, in.Ch3, in.Ch4)
		})
	}, s.window)
	d.Resize(fyne.NewSize(520, 320))
	d.Show()

	set := func(in program.Intensity) {
		for i, v := range []int{in.Ch1, in.Ch2, in.Ch3, in.Ch4} {
			values[i].Set(float64(v))
		}
	}
	if initial != nil {
		set(*initial)
		return
	}
	s.deviceCall("read intensity", func(ctx context.Context, dev icv6.Device) error {
		in, err := dev.QueryIntensity(ctx)
		if err != nil {
			return err
		}
		fyne.Do(func() { set(in) })
		return nil
	}, nil)
}
