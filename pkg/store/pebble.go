// Package store persists time capsules in a Pebble database and owns the
// monotonic id allocator. All access to the collection is funneled through
// a Store value; there is no ambient global state.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"capsuledb/pkg/logger"
	"capsuledb/pkg/models"
	"capsuledb/pkg/telemetry"
)

// Key layout:
//   capsule:<id padded to 20 digits>  -> capsule JSON
//   seq:capsule                       -> big-endian uint64 id counter
// Padded ids keep lexicographic key order equal to numeric id order, so a
// prefix scan yields capsules in insertion order.
const (
	capsulePrefix = "capsule:"
	seqKey        = "seq:capsule"
)

// Store is a Pebble-backed capsule collection. The mutex covers the id
// counter and inserts so ids never collide and are never reused, even
// across restarts: NextID durably persists the counter before handing an
// id out.
type Store struct {
	mu   sync.Mutex
	db   *pebble.DB
	path string
	seq  uint64
}

// Open opens (or creates) a Pebble database at the given path and loads
// the persisted id counter.
func Open(path string) (*Store, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	s := &Store{db: db, path: path}
	v, closer, err := db.Get([]byte(seqKey))
	switch err {
	case nil:
		if len(v) == 8 {
			s.seq = binary.BigEndian.Uint64(v)
		}
		_ = closer.Close()
	case pebble.ErrNotFound:
		// fresh database, counter starts at zero
	default:
		_ = db.Close()
		return nil, fmt.Errorf("failed to read id counter: %w", err)
	}
	logger.Info("pebble_opened", "path", path, "last_id", s.seq)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	logger.Info("pebble_closed", "path", s.path)
	return nil
}

// Ready reports whether the store is opened and usable.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}

// Path returns the on-disk database path.
func (s *Store) Path() string { return s.path }

// NextID returns a strictly increasing id, starting at 1. The counter is
// written with a synced batch before the id is returned, so an id handed
// out is never reissued after a crash.
func (s *Store) NextID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, fmt.Errorf("pebble not opened; call store.Open first")
	}
	next := s.seq + 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	if err := s.db.Set([]byte(seqKey), buf[:], pebble.Sync); err != nil {
		logger.Error("seq_persist_failed", "error", err)
		return 0, fmt.Errorf("failed to persist id counter: %w", err)
	}
	s.seq = next
	return next, nil
}

// Insert stores a capsule under its id. Inserting an id that already
// exists violates the allocator contract and fails with ErrDuplicateID.
func (s *Store) Insert(c models.TimeCapsule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	key := capsuleKey(c.ID)
	if _, closer, err := s.db.Get(key); err == nil {
		_ = closer.Close()
		logger.Error("insert_duplicate_id", "id", c.ID)
		return fmt.Errorf("insert %d: %w", c.ID, models.ErrDuplicateID)
	} else if err != pebble.ErrNotFound {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal capsule: %w", err)
	}
	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		logger.Error("save_capsule_failed", "id", c.ID, "error", err)
		return err
	}
	telemetry.CapsuleWrites.Inc()
	logger.Info("capsule_saved", "id", c.ID, "creator", c.Creator)
	return nil
}

// Get returns the capsule stored under id, or ErrNotFound.
func (s *Store) Get(id uint64) (*models.TimeCapsule, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get(capsuleKey(id))
	if err == pebble.ErrNotFound {
		return nil, fmt.Errorf("capsule %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		logger.Error("get_capsule_failed", "id", id, "error", err)
		return nil, err
	}
	defer closer.Close()
	var c models.TimeCapsule
	if err := json.Unmarshal(v, &c); err != nil {
		return nil, fmt.Errorf("invalid stored capsule %d: %w", id, err)
	}
	telemetry.CapsuleReads.Inc()
	return &c, nil
}

// All returns every stored capsule in id order. Re-invoking yields the
// full current collection.
func (s *Store) All() ([]models.TimeCapsule, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	prefix := []byte(capsulePrefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.TimeCapsule
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var c models.TimeCapsule
		if err := json.Unmarshal(iter.Value(), &c); err != nil {
			logger.Error("scan_invalid_capsule", "key", string(iter.Key()), "error", err)
			continue
		}
		out = append(out, c)
	}
	telemetry.CapsuleScans.Inc()
	return out, iter.Error()
}

// Count returns the number of stored capsules.
func (s *Store) Count() (int, error) {
	all, err := s.All()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

func capsuleKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", capsulePrefix, id))
}
