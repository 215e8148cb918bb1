package store

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/itohio/reeflight/pkg/program"
	"go.etcd.io/bbolt"
)

// MaxNameLength is the longest accepted preset name, in runes.
const MaxNameLength = 100

// Preset is a named manual intensity or automatic program.
type Preset struct {
	ID        uint64             `yaml:"id"`
	Name      string             `yaml:"name"`
	Mode      program.Mode       `yaml:"mode"`
	Intensity *program.Intensity `yaml:"intensity,omitempty"`
	Program   *program.Program   `yaml:"program,omitempty"`
	CreatedAt time.Time          `yaml:"created_at"`
}

// Validate checks the name and that the payload matches the mode.
func (p *Preset) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	switch p.Mode {
	case program.ModeManual:
		if p.Intensity == nil {
			return fmt.Errorf("%w: manual preset requires intensity", ErrInvalid)
		}
		if err := p.Intensity.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	case program.ModeAuto:
		if p.Program == nil || len(p.Program.Points) == 0 {
			return fmt.Errorf("%w: auto preset requires program", ErrInvalid)
		}
		if err := p.Program.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, p.Mode)
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 || n > MaxNameLength {
		return fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalid, MaxNameLength)
	}
	return nil
}

// CreatePreset stores p under a new id and returns the stored preset.
func (db *DB) CreatePreset(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		presets, names := tx.Bucket(presetsBucket), tx.Bucket(namesBucket)
		if names.Get([]byte(p.Name)) != nil {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}

		id, err := presets.NextSequence()
		if err != nil {
			return err
		}
		p.ID = id
		p.CreatedAt = time.Now().UTC()

		b, err := encode(&p)
		if err != nil {
			return err
		}
		if err := presets.Put(idKey(id), b); err != nil {
			return err
		}
		return names.Put([]byte(p.Name), idKey(id))
	})
	if err != nil {
		return Preset{}, err
	}

	log.Infof("Created preset %d %q (%s)", p.ID, p.Name, p.Mode)
	return p, nil
}

// Presets lists all presets, newest first.
func (db *DB) Presets() ([]Preset, error) {
	var out []Preset
	err := db.withBucket(presetsBucket, db.View, func(bkt *bbolt.Bucket) error {
		c := bkt.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var p Preset
			if err := decode(v, &p); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// Preset returns the preset with the given id.
func (db *DB) Preset(id uint64) (Preset, error) {
	var p Preset
	err := db.withBucket(presetsBucket, db.View, func(bkt *bbolt.Bucket) error {
		v := bkt.Get(idKey(id))
		if v == nil {
			return fmt.Errorf("preset %d: %w", id, ErrNotFound)
		}
		return decode(v, &p)
	})
	return p, err
}

// RenamePreset changes the name of a preset, keeping names unique.
func (db *DB) RenamePreset(id uint64, name string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}

	return db.Update(func(tx *bbolt.Tx) error {
		presets, names := tx.Bucket(presetsBucket), tx.Bucket(namesBucket)
		v := presets.Get(idKey(id))
		if v == nil {
			return fmt.Errorf("preset %d: %w", id, ErrNotFound)
		}
		var p Preset
		if err := decode(v, &p); err != nil {
			return err
		}
		if p.Name == name {
			return nil
		}
		if names.Get([]byte(name)) != nil {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		if err := names.Delete([]byte(p.Name)); err != nil {
			return err
		}
		p.Name = name
		b, err := encode(&p)
		if err != nil {
			return err
		}
		if err := presets.Put(idKey(id), b); err != nil {
			return err
		}
		return names.Put([]byte(name), idKey(id))
	})
}

// DeletePreset removes a preset.
func (db *DB) DeletePreset(id uint64) error {
	return db.Update(func(tx *bbolt.Tx) error {
		presets, names := tx.Bucket(presetsBucket), tx.Bucket(namesBucket)
		v := presets.Get(idKey(id))
		if v == nil {
			return fmt.Errorf("preset %d: %w", id, ErrNotFound)
		}
		var p Preset
		if err := decode(v, &p); err != nil {
			return err
		}
		if err := names.Delete([]byte(p.Name)); err != nil {
			return err
		}
		return presets.Delete(idKey(id))
	})
}
