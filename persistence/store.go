// Package persistence keeps the light state and device settings on disk
// so the strip comes back in its last state after a power cycle.
package persistence

import (
	"encoding/json"
	"sync"

	"github.com/boltdb/bolt"

	"github.com/glowbridge/glowbridge/light"
)

var (
	bucketLight    = []byte("light")
	bucketSettings = []byte("settings")
)

var keyState = []byte("state")

// Store BoltDB backed device state storage
type Store struct {
	db   *bolt.DB
	done chan struct{}
	lock sync.Mutex
}

// Open opens or creates the store file
func Open(file string) (*Store, error) {
	db, err := bolt.Open(file, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(bucketLight); e != nil {
			return e
		}
		if _, e := tx.CreateBucketIfNotExists(bucketSettings); e != nil {
			return e
		}

		return nil
	})

	if err != nil {
		db.Close() // nolint: errcheck
		return nil, err
	}

	return &Store{
		db:   db,
		done: make(chan struct{}),
	}, nil
}

// LightState loads the persisted light state. Returns ErrNotFound when
// nothing was stored yet
func (s *Store) LightState() (light.State, error) {
	state := light.DefaultState()

	if err := s.open(); err != nil {
		return state, err
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketLight).Get(keyState)
		if raw == nil {
			return ErrNotFound
		}

		if json.Unmarshal(raw, &state) != nil {
			return ErrBrokenEntry
		}

		return nil
	})

	return state, err
}

// StoreLightState persists the given light state
func (s *Store) StoreLightState(state light.State) error {
	if err := s.open(); err != nil {
		return err
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLight).Put(keyState, raw)
	})
}

// Setting loads a raw settings value. Returns ErrNotFound when the key
// was never stored
func (s *Store) Setting(key string) ([]byte, error) {
	if err := s.open(); err != nil {
		return nil, err
	}

	var out []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSettings).Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}

		out = append(out, raw...)

		return nil
	})

	return out, err
}

// StoreSetting persists a raw settings value
func (s *Store) StoreSetting(key string, value []byte) error {
	if err := s.open(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put([]byte(key), value)
	})
}

// Wipe drops everything stored
func (s *Store) Wipe() error {
	if err := s.open(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketLight, bucketSettings} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		return nil
	})
}

// Close flushes and closes the store file
func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	select {
	case <-s.done:
		return ErrNotOpen
	default:
	}

	close(s.done)

	return s.db.Close()
}

func (s *Store) open() error {
	select {
	case <-s.done:
		return ErrNotOpen
	default:
		return nil
	}
}
