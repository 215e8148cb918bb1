package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/program"
	"github.com/itohio/reeflight/pkg/store"
)

// presetsView lists stored presets and the validation polling settings.
type presetsView struct {
	state    *appState
	presets  []store.Preset
	selected int
	list     *widget.List
	dialog   dialog.Dialog
}

// showPresetsDialog displays the preset manager.
func (s *appState) showPresetsDialog() {
	v := &presetsView{state: s, selected: -1}
	v.list = widget.NewList(
		func() int { return len(v.presets) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil, widget.NewLabel("created"), widget.NewLabel("name"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(v.presets) {
				return
			}
			p := v.presets[id]
			c := obj.(*fyne.Container)
			c.Objects[0].(*widget.Label).SetText(fmt.Sprintf("%s (%s)", p.Name, p.Mode))
			c.Objects[1].(*widget.Label).SetText(p.CreatedAt.Local().Format(time.DateTime))
		},
	)
	v.list.OnSelected = func(id widget.ListItemID) { v.selected = id }
	v.list.OnUnselected = func(widget.ListItemID) { v.selected = -1 }
	v.reload()

	buttons := container.NewHBox(
		widget.NewButtonWithIcon("Save program", theme.ContentAddIcon(), v.createFromProgram),
		widget.NewButtonWithIcon("Save manual", theme.ContentAddIcon(), v.createFromDevice),
		widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), v.apply),
		widget.NewButtonWithIcon("Rename", theme.DocumentCreateIcon(), v.rename),
		widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), v.remove),
	)

	content := container.NewBorder(buttons, v.pollingForm(), nil, nil, v.list)
	v.dialog = dialog.NewCustom("Presets", "Close", content, s.window)
	v.dialog.Resize(fyne.NewSize(640, 520))
	v.dialog.Show()
}

func (v *presetsView) reload() {
	presets, err := v.state.db.Presets()
	if err != nil {
		dialog.ShowError(err, v.state.window)
		return
	}
	v.presets = presets
	v.selected = -1
	v.list.UnselectAll()
	v.list.Refresh()
}

func (v *presetsView) current() (store.Preset, bool) {
	if v.selected < 0 || v.selected >= len(v.presets) {
		return store.Preset{}, false
	}
	return v.presets[v.selected], true
}

// askName prompts for a preset name and passes it to fn.
func (v *presetsView) askName(title, initial string, fn func(name string) error) {
	entry := widget.NewEntry()
	entry.SetText(initial)
	entry.Validator = func(s string) error {
		if s == "" {
			return fmt.Errorf("name is required")
		}
		return nil
	}
	dialog.ShowForm(title, "Save", "Cancel", []*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			if err := fn(entry.Text); err != nil {
				dialog.ShowError(err, v.state.window)
				return
			}
			v.reload()
		}, v.state.window)
}

// createFromProgram stores the edited rows as an automatic preset.
func (v *presetsView) createFromProgram() {
	v.state.rows.Normalize()
	prog := v.state.rows.Program()
	v.askName("Save program preset", "", func(name string) error {
		p, err := v.state.db.CreatePreset(store.Preset{Name: name, Mode: program.ModeAuto, Program: &prog})
		if err != nil {
			return err
		}
		v.state.setStatus("Saved preset %q", p.Name)
		return nil
	})
}

// createFromDevice stores the intensity the device shows as a manual preset.
func (v *presetsView) createFromDevice() {
	var in program.Intensity
	v.state.deviceCall("read intensity", func(ctx context.Context, dev icv6.Device) error {
		var err error
		in, err = dev.QueryIntensity(ctx)
		return err
	}, func() {
		v.askName("Save manual preset", "", func(name string) error {
			p, err := v.state.db.CreatePreset(store.Preset{Name: name, Mode: program.ModeManual, Intensity: &in})
			if err != nil {
				return err
			}
			v.state.setStatus("Saved preset %q", p.Name)
			return nil
		})
	})
}

// apply loads an automatic preset into the editor or opens the manual
// intensity dialog with the preset values.
func (v *presetsView) apply() {
	p, ok := v.current()
	if !ok {
		return
	}
	switch p.Mode {
	case program.ModeAuto:
		load := func() {
			v.state.loadProgram(*p.Program)
			v.dialog.Hide()
		}
		if !v.state.rows.Dirty() {
			load()
			return
		}
		dialog.ShowConfirm("Discard changes", fmt.Sprintf("Replace the edited program with preset %q?", p.Name),
			func(ok bool) {
				if ok {
					load()
				}
			}, v.state.window)
	case program.ModeManual:
		v.dialog.Hide()
		v.state.manualDialog(p.Intensity)
	}
}

func (v *presetsView) rename() {
	p, ok := v.current()
	if !ok {
		return
	}
	v.askName("Rename preset", p.Name, func(name string) error {
		return v.state.db.RenamePreset(p.ID, name)
	})
}

func (v *presetsView) remove() {
	p, ok := v.current()
	if !ok {
		return
	}
	dialog.ShowConfirm("Delete preset", fmt.Sprintf("Delete preset %q?", p.Name), func(ok bool) {
		if !ok {
			return
		}
		if err := v.state.db.DeletePreset(p.ID); err != nil {
			dialog.ShowError(err, v.state.window)
			return
		}
		v.reload()
	}, v.state.window)
}

// pollingForm edits the validation polling settings and offers a database backup.
func (v *presetsView) pollingForm() fyne.CanvasObject {
	polling, err := v.state.db.ValidationPolling()
	if err != nil {
		log.Errorf("Failed to read validation polling: %v", err)
		polling = store.DefaultValidationPolling
	}

	enabled := widget.NewCheck("Verify the device program periodically", nil)
	enabled.SetChecked(polling.Enabled)

	minutes := widget.NewEntry()
	minutes.SetText(strconv.Itoa(int(polling.Interval / time.Minute)))
	minutes.Validator = func(s string) error {
		_, err := strconv.Atoi(s)
		return err
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Polling", Widget: enabled},
			{Text: "Interval (minutes)", Widget: minutes, HintText: "1 to 1440"},
		},
		SubmitText: "Apply",
		OnSubmit: func() {
			n, err := strconv.Atoi(minutes.Text)
			if err != nil {
				dialog.ShowError(err, v.state.window)
				return
			}
			saved, err := v.state.db.SetValidationPolling(store.ValidationPolling{
				Enabled:  enabled.Checked,
				Interval: time.Duration(n) * time.Minute,
			})
			if err != nil {
				dialog.ShowError(err, v.state.window)
				return
			}
			minutes.SetText(strconv.Itoa(int(saved.Interval / time.Minute)))
			v.state.restartMonitor()
			v.state.setStatus("Validation polling every %s (enabled: %t)", saved.Interval, saved.Enabled)
		},
	}

	backup := widget.NewButtonWithIcon("Backup database", theme.DocumentSaveIcon(), func() {
		path, err := v.state.db.Backup()
		if err != nil {
			dialog.ShowError(err, v.state.window)
			return
		}
		v.state.setStatus("Database backed up to %s", path)
	})

	return container.NewVBox(widget.NewSeparator(), form, backup)
}
