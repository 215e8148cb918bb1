package store

import (
	"fmt"
	"time"

	"github.com/itohio/reeflight/pkg/icv6"
	"github.com/itohio/reeflight/pkg/program"
	"go.etcd.io/bbolt"
)

// MaxValidationRuns bounds the verification history.
const MaxValidationRuns = 500

// ActiveTarget is what the device was last told to do.
type ActiveTarget struct {
	Mode      program.Mode       `yaml:"mode"`
	Intensity *program.Intensity `yaml:"intensity,omitempty"`
	Program   *program.Program   `yaml:"program,omitempty"`
	UpdatedAt time.Time          `yaml:"updated_at"`
}

// ValidationPolling configures the periodic program verification.
type ValidationPolling struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// DefaultValidationPolling is used until polling is configured.
var DefaultValidationPolling = ValidationPolling{Enabled: true, Interval: time.Minute}

// SetActiveTarget replaces the active target.
func (db *DB) SetActiveTarget(t ActiveTarget) error {
	if !t.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, t.Mode)
	}
	t.UpdatedAt = time.Now().UTC()
	b, err := encode(&t)
	if err != nil {
		return err
	}
	return db.withBucket(appBucket, db.Update, func(bkt *bbolt.Bucket) error {
		return bkt.Put(activeTargetKey, b)
	})
}

// UpdateTargetMode changes the mode of the active target, keeping its payload.
func (db *DB) UpdateTargetMode(mode program.Mode) error {
	t, err := db.ActiveTarget()
	if err != nil && !isNotFound(err) {
		return err
	}
	t.Mode = mode
	return db.SetActiveTarget(t)
}

// ActiveTarget returns the active target or ErrNotFound.
func (db *DB) ActiveTarget() (ActiveTarget, error) {
	var t ActiveTarget
	err := db.withBucket(appBucket, db.View, func(bkt *bbolt.Bucket) error {
		v := bkt.Get(activeTargetKey)
		if v == nil {
			return fmt.Errorf("active target: %w", ErrNotFound)
		}
		return decode(v, &t)
	})
	return t, err
}

// ActiveProgram returns the program of the active target, or nil.
func (db *DB) ActiveProgram() *program.Program {
	t, err := db.ActiveTarget()
	if err != nil {
		if !isNotFound(err) {
			log.Errorf("Failed to read active target: %v", err)
		}
		return nil
	}
	return t.Program
}

// AddValidationRun appends a verification result, dropping the oldest runs
// beyond MaxValidationRuns.
func (db *DB) AddValidationRun(res icv6.Result) error {
	if res.CheckedAt.IsZero() {
		res.CheckedAt = time.Now()
	}
	res.CheckedAt = res.CheckedAt.UTC()
	b, err := encode(&res)
	if err != nil {
		return err
	}

	return db.withBucket(runsBucket, db.Update, func(bkt *bbolt.Bucket) error {
		id, err := bkt.NextSequence()
		if err != nil {
			return err
		}
		if err := bkt.Put(idKey(id), b); err != nil {
			return err
		}

		if id <= MaxValidationRuns {
			return nil
		}
		cutoff := id - MaxValidationRuns
		var stale [][]byte
		c := bkt.Cursor()
		for k, _ := c.First(); k != nil && keyID(k) <= cutoff; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := bkt.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// LatestValidationRun returns the most recent verification result or
// ErrNotFound.
func (db *DB) LatestValidationRun() (icv6.Result, error) {
	var res icv6.Result
	err := db.withBucket(runsBucket, db.View, func(bkt *bbolt.Bucket) error {
		k, v := bkt.Cursor().Last()
		if k == nil {
			return fmt.Errorf("validation run: %w", ErrNotFound)
		}
		return decode(v, &res)
	})
	return res, err
}

// ValidationRuns returns up to n results, newest first.
func (db *DB) ValidationRuns(n int) ([]icv6.Result, error) {
	var out []icv6.Result
	err := db.withBucket(runsBucket, db.View, func(bkt *bbolt.Bucket) error {
		c := bkt.Cursor()
		for k, v := c.Last(); k != nil && len(out) < n; k, v = c.Prev() {
			var res icv6.Result
			if err := decode(v, &res); err != nil {
				return err
			}
			out = append(out, res)
		}
		return nil
	})
	return out, err
}

// ValidationPolling returns the stored polling settings or the defaults.
func (db *DB) ValidationPolling() (ValidationPolling, error) {
	cfg := DefaultValidationPolling
	err := db.withBucket(appBucket, db.View, func(bkt *bbolt.Bucket) error {
		v := bkt.Get(pollingKey)
		if v == nil {
			return nil
		}
		return decode(v, &cfg)
	})
	return cfg, err
}

// SetValidationPolling stores polling settings. The interval is clamped to
// one minute .. one day.
func (db *DB) SetValidationPolling(cfg ValidationPolling) (ValidationPolling, error) {
	cfg.Interval = program.Clamp(cfg.Interval.Truncate(time.Minute), time.Minute, 24*time.Hour)
	b, err := encode(&cfg)
	if err != nil {
		return ValidationPolling{}, err
	}
	err = db.withBucket(appBucket, db.Update, func(bkt *bbolt.Bucket) error {
		return bkt.Put(pollingKey, b)
	})
	return cfg, err
}
