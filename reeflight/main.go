package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/reeflight/pkg/chart"
	"github.com/itohio/reeflight/pkg/config"
	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/program"
	"github.com/itohio/reeflight/pkg/store"
	"github.com/itohio/reeflight/pkg/table"
	flags "github.com/jessevdk/go-flags"
)

const appTitle = "Reef Light"

type options struct {
	ConfigFile string `short:"C" long:"config" description:"Configuration file path" default:"config.yaml"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical, off} or SUBSYS=level pairs"`
	Transport  string `short:"t" long:"transport" description:"Device transport override" choice:"tcp" choice:"serial" choice:"mock"`
	Host       string `long:"host" description:"Controller host override"`
	Port       string `short:"p" long:"port" description:"Serial port override (e.g., COM3 or /dev/ttyUSB0)"`
	Program    string `long:"program" description:"Open a YAML program file on start"`
}

// apply writes command line overrides into cfg.
func (o *options) apply(cfg *config.Config) {
	if o.Transport != "" {
		cfg.Device.Transport = o.Transport
	}
	if o.Host != "" {
		cfg.Device.Host = o.Host
	}
	if o.Port != "" {
		cfg.Device.Serial.Port = o.Port
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.apply(cfg)

	if cfg.Log.File != "" {
		if err := initLogRotator(cfg.Log.File, cfg.Log.MaxRolls); err != nil {
			return err
		}
		defer logRotator.Close()
	}
	level := cfg.Log.Level
	if opts.DebugLevel != "" {
		level = opts.DebugLevel
	}
	if err := parseAndSetDebugLevels(level); err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application := app.NewWithID("com.itohio.reeflight")
	window := application.NewWindow(appTitle)
	window.Resize(fyne.NewSize(1200, 700))
	window.CenterOnScreen()

	state := newAppState(ctx, cfg, opts.ConfigFile, db, window)
	window.SetContent(state.layout())

	switch {
	case opts.Program != "":
		if err := state.loadProgramFile(opts.Program); err != nil {
			log.Errorf("Failed to open %s: %v", opts.Program, err)
		}
	default:
		if prog := db.ActiveProgram(); prog != nil {
			state.rows.Load(prog.ToPoints())
		}
	}

	go func() {
		err := config.Watch(ctx, opts.ConfigFile, func(c *config.Config, err error) {
			if err != nil {
				log.Warnf("Ignoring invalid configuration: %v", err)
				return
			}
			opts.apply(c)
			fyne.Do(func() { state.applyConfig(c) })
		})
		if err != nil {
			log.Warnf("Configuration reload disabled: %v", err)
		}
	}()
	state.restartMonitor()

	window.SetCloseIntercept(func() {
		if !state.rows.Dirty() {
			window.Close()
			return
		}
		dialog.ShowConfirm("Unsaved changes", "The program has changes that were not uploaded. Quit anyway?",
			func(ok bool) {
				if ok {
					window.Close()
				}
			}, window)
	})

	log.Infof("Started, device %s via %s", cfg.Device.DeviceID, cfg.Device.Transport)
	window.ShowAndRun()
	log.Infof("Shutting down")
	return nil
}

// appState holds the application state.
type appState struct {
	ctx     context.Context
	cfg     *config.Config
	cfgFile string
	db      *store.DB
	device  icv6.Device
	window  fyne.Window

	rows   *table.Store
	ctrl   *chart.Controller
	editor *chart.Editor
	legend *chart.Legend
	table  *rowTable

	content   *fyne.Container
	chartView fyne.CanvasObject

	snapBtn      *widget.Button
	valueSnapBtn *widget.Button
	viewBtn      *widget.Button
	modeSelect   *widget.Select
	status       *widget.Label

	monitorCancel context.CancelFunc
}

func newAppState(ctx context.Context, cfg *config.Config, cfgFile string, db *store.DB, window fyne.Window) *appState {
	state := &appState{
		ctx:     ctx,
		cfg:     cfg,
		cfgFile: cfgFile,
		db:      db,
		device:  newDevice(cfg),
		window:  window,
		rows:    table.NewStore(),
	}

	state.rows.SetTimeSnap(cfg.Editor.TimeSnap)
	state.rows.SetValueSnap(cfg.Editor.ValueSnap)

	palette := state.palette()
	state.ctrl = chart.NewController(state.rows, chart.Options{Labels: cfg.Chart.ChannelLabels()})
	state.editor = chart.NewEditor(state.ctrl, palette)
	state.legend = chart.NewLegend(state.ctrl, palette)
	state.table = newRowTable(state)

	state.rows.OnChange(state.rowsChanged)
	return state
}

// newDevice builds the device selected by the configuration.
func newDevice(cfg *config.Config) icv6.Device {
	switch cfg.Device.Transport {
	case config.TransportMock:
		log.Infof("Using mocked device")
		return icv6.NewMock(&cfg.Mock)
	case config.TransportSerial:
		return icv6.New(icv6.SerialDialer{
			Port:     cfg.Device.Serial.Port,
			BaudRate: cfg.Device.Serial.Baud,
		}, cfg.Device.DeviceID, cfg.Device.Timeout)
	default:
		return icv6.New(icv6.TCPDialer{Address: cfg.Device.Address()}, cfg.Device.DeviceID, cfg.Device.Timeout)
	}
}

func (s *appState) palette() chart.Palette {
	palette, err := chart.NewPalette(s.cfg.Chart.ChannelColors())
	if err != nil {
		log.Warnf("Invalid channel colour: %v", err)
	}
	return palette
}

// layout builds the window content: toolbar on top, chart or table below and
// the status line at the bottom.
func (s *appState) layout() fyne.CanvasObject {
	s.status = widget.NewLabel("")
	s.chartView = container.NewBorder(s.legend, nil, nil, nil, s.editor)
	s.content = container.NewStack(s.chartView)

	return container.NewBorder(
		s.createToolbar(),
		s.status,
		nil,
		nil,
		s.content,
	)
}

// createToolbar creates the toolbar with view, snapping, device and preset controls.
func (s *appState) createToolbar() fyne.CanvasObject {
	resetBtn := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() {
		s.ctrl.ResetView()
	})

	s.snapBtn = widget.NewButton("15 min", func() {
		if s.rows.TimeSnap() == program.SnapCoarse {
			s.rows.SetTimeSnap(program.SnapFine)
		} else {
			s.rows.SetTimeSnap(program.SnapCoarse)
		}
		s.rows.Normalize()
		s.updateToggles()
	})

	s.valueSnapBtn = widget.NewButton("5 %", func() {
		s.rows.SetValueSnap(!s.rows.ValueSnap())
		s.rows.Normalize()
		s.updateToggles()
	})

	s.viewBtn = widget.NewButtonWithIcon("Table", theme.ListIcon(), func() {
		s.toggleView()
	})

	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		s.ctrl.DeleteSelected()
	})

	s.modeSelect = widget.NewSelect([]string{string(program.ModeManual), string(program.ModeAuto)}, nil)
	s.modeSelect.PlaceHolder = "mode"
	s.modeSelect.OnChanged = func(mode string) {
		s.setMode(program.Mode(mode))
	}

	pullBtn := widget.NewButtonWithIcon("", theme.DownloadIcon(), func() { s.pullProgram() })
	pushBtn := widget.NewButtonWithIcon("", theme.UploadIcon(), func() { s.pushProgram() })
	verifyBtn := widget.NewButtonWithIcon("", theme.ConfirmIcon(), func() { s.verifyProgram() })
	manualBtn := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() { s.showManualDialog() })

	openBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() { s.showOpenDialog() })
	saveBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() { s.showSaveDialog() })
	presetsBtn := widget.NewButtonWithIcon("Presets", theme.StorageIcon(), func() { s.showPresetsDialog() })
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() { showSettingsDialog(s) })

	s.updateToggles()

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(resetBtn, s.snapBtn, s.valueSnapBtn, s.viewBtn, deleteBtn, openBtn, saveBtn),
		container.NewHBox(s.modeSelect, pullBtn, pushBtn, verifyBtn, manualBtn, presetsBtn, settingsBtn),
		nil,
	)
}

// updateToggles reflects the snapping state in the toolbar buttons.
func (s *appState) updateToggles() {
	setToggle(s.snapBtn, s.rows.TimeSnap() == program.SnapCoarse)
	setToggle(s.valueSnapBtn, s.rows.ValueSnap())
}

func setToggle(btn *widget.Button, on bool) {
	if btn == nil {
		return
	}
	if on {
		btn.Importance = widget.HighImportance
	} else {
		btn.Importance = widget.MediumImportance
	}
	btn.Refresh()
}

// toggleView switches between the chart and the table.
func (s *appState) toggleView() {
	if s.rows.Visible() {
		s.rows.SetVisible(false)
		s.content.Objects = []fyne.CanvasObject{s.table}
		s.viewBtn.SetText("Chart")
		s.viewBtn.SetIcon(theme.GridIcon())
	} else {
		s.rows.SetVisible(true)
		s.content.Objects = []fyne.CanvasObject{s.chartView}
		s.viewBtn.SetText("Table")
		s.viewBtn.SetIcon(theme.ListIcon())
		s.ctrl.Redraw(nil)
	}
	s.content.Refresh()
}

// rowsChanged keeps the chart, the table and the title in sync with the rows.
func (s *appState) rowsChanged(c table.Change) {
	switch c.Kind {
	case table.RowRemoved:
		s.ctrl.OnRowRemoved(c.Row)
	case table.DirtyChanged:
		s.updateTitle()
		return
	}
	if s.table != nil {
		s.table.Refresh()
	}
	s.updateTitle()
	if c.Kind == table.RowsLoaded || c.Kind == table.RowsReordered || !s.rows.Visible() {
		s.ctrl.Redraw(nil)
	}
}

func (s *appState) updateTitle() {
	title := appTitle
	if s.rows.Dirty() {
		title += " *"
	}
	s.window.SetTitle(title)
}

func (s *appState) setStatus(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Info(msg)
	if s.status != nil {
		s.status.SetText(msg)
	}
}

// applyConfig takes over a reloaded configuration.
func (s *appState) applyConfig(cfg *config.Config) {
	old := s.cfg
	s.cfg = cfg

	s.rows.SetTimeSnap(cfg.Editor.TimeSnap)
	s.rows.SetValueSnap(cfg.Editor.ValueSnap)
	s.updateToggles()

	s.ctrl.SetLabels(cfg.Chart.ChannelLabels())
	palette := s.palette()
	s.editor.SetPalette(palette)
	s.legend.SetPalette(palette)

	if old.Log.Level != cfg.Log.Level {
		if err := parseAndSetDebugLevels(cfg.Log.Level); err != nil {
			log.Warnf("Keeping log levels: %v", err)
		}
	}

	if old.Device != cfg.Device || old.Mock != cfg.Mock {
		s.device = newDevice(cfg)
		s.restartMonitor()
	}
	s.setStatus("Configuration reloaded")
}
