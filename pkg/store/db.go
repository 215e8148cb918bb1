// Package store keeps presets, the active device target and verification
// history in a bbolt database.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

var (
	appBucket       = []byte("appBucket")
	presetsBucket   = []byte("presets")
	namesBucket     = []byte("presetNames")
	runsBucket      = []byte("validationRuns")
	activeTargetKey = []byte("activeTarget")
	pollingKey      = []byte("validationPolling")
	backupDir       = "backup"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("preset name already exists")
	ErrInvalid       = errors.New("invalid preset")
)

// DB is a bbolt-based preset database.
type DB struct {
	*bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	bdb, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db := &DB{DB: bdb}
	if err := db.makeTopLevelBuckets([][]byte{appBucket, presetsBucket, namesBucket, runsBucket}); err != nil {
		bdb.Close()
		return nil, err
	}
	log.Debugf("Opened database %s", path)
	return db, nil
}

func (db *DB) makeTopLevelBuckets(buckets [][]byte) error {
	return db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range buckets {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type txFunc func(func(*bbolt.Tx) error) error

// withBucket runs f with the named top level bucket inside a View or Update.
func (db *DB) withBucket(bkt []byte, viewer txFunc, f func(*bbolt.Bucket) error) error {
	return viewer(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bkt)
		if bucket == nil {
			return fmt.Errorf("failed to open %s bucket", string(bkt))
		}
		return f(bucket)
	})
}

// Backup copies the database into a backup directory next to it and returns
// the path of the copy.
func (db *DB) Backup() (string, error) {
	dir := filepath.Join(filepath.Dir(db.Path()), backupDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.Mkdir(dir, 0700)
		if err != nil {
			return "", fmt.Errorf("unable to create backup directory: %w", err)
		}
	}

	path := filepath.Join(dir, filepath.Base(db.Path()))
	err := db.View(func(tx *bbolt.Tx) error {
		return tx.CopyFile(path, 0600)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func idKey(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func keyID(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func encode(v any) ([]byte, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return b, nil
}

func decode(b []byte, v any) error {
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}
