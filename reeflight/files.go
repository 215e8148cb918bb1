package main

import (
	"fmt"
	"io"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/itohio/reeflight/pkg/program"
	"gopkg.in/yaml.v3"
)

// decodeProgram reads a YAML program and checks it against the device limits.
func decodeProgram(r io.Reader) (program.Program, error) {
	var prog program.Program
	if err := yaml.NewDecoder(r).Decode(&prog); err != nil {
		return program.Program{}, fmt.Errorf("failed to parse program: %w", err)
	}
	if err := prog.Validate(); err != nil {
		return program.Program{}, err
	}
	return prog, nil
}

// encodeProgram writes prog as YAML.
func encodeProgram(w io.Writer, prog program.Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(prog); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	return enc.Close()
}

// loadProgramFile replaces the rows with the program in filename.
func (s *appState) loadProgramFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open program file: %w", err)
	}
	defer f.Close()

	prog, err := decodeProgram(f)
	if err != nil {
		return err
	}
	s.loadProgram(prog)
	return nil
}

// loadProgram replaces the rows with prog. The rows stay dirty against the
// program on the device.
func (s *appState) loadProgram(prog program.Program) {
	s.rows.Load(prog.ToPoints())
	var saved []program.Point
	if active := s.db.ActiveProgram(); active != nil {
		saved = active.ToPoints()
	}
	s.rows.SetSaved(saved)
	s.setStatus("Loaded %d program points", len(prog.Points))
}

func (s *appState) showOpenDialog() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.window)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()

		prog, err := decodeProgram(rc)
		if err != nil {
			dialog.ShowError(err, s.window)
			return
		}
		s.loadProgram(prog)
	}, s.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	d.Show()
}

func (s *appState) showSaveDialog() {
	s.rows.Normalize()
	prog := s.rows.Program()

	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, s.window)
			return
		}
		if wc == nil {
			return
		}
		defer wc.Close()

		if err := encodeProgram(wc, prog); err != nil {
			dialog.ShowError(err, s.window)
			return
		}
		s.setStatus("Saved %d program points to %s", len(prog.Points), wc.URI().Name())
	}, s.window)
	d.SetFileName("program.yaml")
	d.Show()
}
