package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/chart"
	"github.com/itohio/reeflight/pkg/config"
	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/program"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createDeviceTab(state),
		createEditorTab(state),
		createChartTab(state),
		createMockTab(state),
		createLogTab(state),
	)

	d := dialog.NewCustom("Settings", "Close", tabs, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// cloneConfig copies cfg so edits do not leak into the running state before
// they are saved.
func cloneConfig(cfg *config.Config) *config.Config {
	next := *cfg
	next.Chart.Channels = append([]config.ChannelConfig(nil), cfg.Chart.Channels...)
	return &next
}

// saveConfig writes next to the configuration file and applies it.
func saveConfig(state *appState, next *config.Config) {
	if err := next.Save(state.cfgFile); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return
	}
	state.applyConfig(next)
}

// serialPortOptions lists the available serial ports with their descriptions,
// keeping current selectable even when it is not plugged in.
func serialPortOptions(current string) (options []string, ports map[string]string, selected string) {
	ports = make(map[string]string)
	list, err := icv6.Ports()
	if err != nil {
		log.Warnf("Failed to list serial ports: %v", err)
	}
	for _, port := range list {
		name := port.Name
		if port.Description != "" && port.Description != port.Name {
			name = fmt.Sprintf("%s (%s)", port.Name, port.Description)
		}
		options = append(options, name)
		ports[name] = port.Name
		if port.Name == current {
			selected = name
		}
	}
	if selected == "" && current != "" {
		options = append(options, current)
		ports[current] = current
		selected = current
	}
	return options, ports, selected
}

// createDeviceTab creates the controller connection tab.
func createDeviceTab(state *appState) *container.TabItem {
	dev := state.cfg.Device

	transportSelect := widget.NewSelect([]string{config.TransportTCP, config.TransportSerial, config.TransportMock}, nil)
	transportSelect.SetSelected(dev.Transport)

	hostEntry := widget.NewEntry()
	hostEntry.SetText(dev.Host)

	portEntry := widget.NewEntry()
	portEntry.SetText(strconv.Itoa(dev.Port))

	options, portMap, current := serialPortOptions(dev.Serial.Port)
	serialSelect := widget.NewSelect(options, nil)
	if current != "" {
		serialSelect.SetSelected(current)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(dev.Serial.Baud))

	idEntry := widget.NewEntry()
	idEntry.SetText(dev.DeviceID)
	idEntry.Validator = func(s string) error {
		if len(s) != icv6.DeviceIDLength {
			return fmt.Errorf("device id must be %d characters", icv6.DeviceIDLength)
		}
		return nil
	}

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(dev.Timeout.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Transport", Widget: transportSelect},
			{Text: "Host", Widget: hostEntry},
			{Text: "TCP Port", Widget: portEntry},
			{Text: "Serial Port", Widget: serialSelect},
			{Text: "Baud Rate", Widget: baudEntry},
			{Text: "Device ID", Widget: idEntry},
			{Text: "Timeout", Widget: timeoutEntry},
		},
		OnSubmit: func() {
			next := cloneConfig(state.cfg)
			if transportSelect.Selected != "" {
				next.Device.Transport = transportSelect.Selected
			}
			if hostEntry.Text != "" {
				next.Device.Host = hostEntry.Text
			}
			if port, err := strconv.Atoi(portEntry.Text); err == nil && port > 0 {
				next.Device.Port = port
			}
			if serialSelect.Selected != "" {
				port := portMap[serialSelect.Selected]
				if port == "" {
					port = serialSelect.Selected
				}
				next.Device.Serial.Port = port
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				next.Device.Serial.Baud = baud
			}
			if len(idEntry.Text) == icv6.DeviceIDLength {
				next.Device.DeviceID = idEntry.Text
			}
			if timeout, err := time.ParseDuration(timeoutEntry.Text); err == nil && timeout > 0 {
				next.Device.Timeout = timeout
			}
			saveConfig(state, next)
		},
	}

	return container.NewTabItem("Device", form)
}

// createEditorTab creates the snapping preferences tab.
func createEditorTab(state *appState) *container.TabItem {
	snapSelect := widget.NewSelect([]string{"5", "15"}, nil)
	snapSelect.SetSelected(strconv.Itoa(state.cfg.Editor.TimeSnap))

	valueSnap := widget.NewCheck(fmt.Sprintf("Snap intensities to %d %% steps", program.ValueStep), nil)
	valueSnap.SetChecked(state.cfg.Editor.ValueSnap)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Time Snap (minutes)", Widget: snapSelect},
			{Text: "Value Snap", Widget: valueSnap},
		},
		OnSubmit: func() {
			next := cloneConfig(state.cfg)
			if snap, err := strconv.Atoi(snapSelect.Selected); err == nil {
				next.Editor.TimeSnap = snap
			}
			next.Editor.ValueSnap = valueSnap.Checked
			saveConfig(state, next)
		},
	}

	return container.NewTabItem("Editor", form)
}

// createChartTab creates the channel label and colour tab.
func createChartTab(state *appState) *container.TabItem {
	labels := make([]*widget.Entry, len(state.cfg.Chart.Channels))
	colors := make([]*widget.Entry, len(state.cfg.Chart.Channels))
	items := make([]*widget.FormItem, 0, 2*len(labels))
	for i, ch := range state.cfg.Chart.Channels {
		labels[i] = widget.NewEntry()
		labels[i].SetText(ch.Label)
		colors[i] = widget.NewEntry()
		colors[i].SetText(ch.Color)
		colors[i].Validator = func(s string) error {
			_, err := chart.ParseHexColor(s)
			return err
		}
		items = append(items,
			&widget.FormItem{Text: fmt.Sprintf("Channel %d Label", i+1), Widget: labels[i]},
			&widget.FormItem{Text: fmt.Sprintf("Channel %d Colour", i+1), Widget: colors[i], HintText: "#rrggbb"},
		)
	}

	form := &widget.Form{
		Items: items,
		OnSubmit: func() {
			next := cloneConfig(state.cfg)
			for i := range next.Chart.Channels {
				if labels[i].Text != "" {
					next.Chart.Channels[i].Label = labels[i].Text
				}
				if _, err := chart.ParseHexColor(colors[i].Text); err == nil {
					next.Chart.Channels[i].Color = colors[i].Text
				}
			}
			saveConfig(state, next)
		},
	}

	return container.NewTabItem("Chart", container.NewVScroll(form))
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	modeSelect := widget.NewSelect([]string{string(program.ModeManual), string(program.ModeAuto)}, nil)
	modeSelect.SetSelected(state.cfg.Mock.Mode)

	latencyEntry := widget.NewEntry()
	latencyEntry.SetText(state.cfg.Mock.Latency.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Initial Mode", Widget: modeSelect},
			{Text: "Latency", Widget: latencyEntry},
		},
		OnSubmit: func() {
			next := cloneConfig(state.cfg)
			if modeSelect.Selected != "" {
				next.Mock.Mode = modeSelect.Selected
			}
			if latency, err := time.ParseDuration(latencyEntry.Text); err == nil && latency >= 0 {
				next.Mock.Latency = latency
			}
			saveConfig(state, next)
		},
	}

	return container.NewTabItem("Mock", form)
}

// createLogTab creates the logging tab.
func createLogTab(state *appState) *container.TabItem {
	levelEntry := widget.NewEntry()
	levelEntry.SetText(state.cfg.Log.Level)
	levelEntry.Validator = func(s string) error {
		return validateDebugLevels(s)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Level", Widget: levelEntry, HintText: "level or SUBSYS=level,..."},
		},
		OnSubmit: func() {
			if err := parseAndSetDebugLevels(levelEntry.Text); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			next := cloneConfig(state.cfg)
			next.Log.Level = levelEntry.Text
			saveConfig(state, next)
		},
	}

	return container.NewTabItem("Log", form)
}
