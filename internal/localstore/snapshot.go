package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chekib1978/cafe-flow-print/internal/models"
	"github.com/chekib1978/cafe-flow-print/internal/util"

	bolt "go.etcd.io/bbolt"
)

// The whole store image lives under one bucket/key pair, overwrite
// semantics. Full-copy persistence: every mutation rewrites the entire
// image. Acceptable because the store is small and single-user.
var (
	snapshotBucket = []byte("cafeteria")
	snapshotKey    = []byte("state")
)

// persist serializes the given state into the snapshot slot. Callers must
// hold the write lock.
func (s *Store) persist(st *state) error {
	start := time.Now()

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(snapshotBucket)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	util.SnapshotWritesTotal.Inc()
	util.SnapshotWriteLatency.Observe(time.Since(start).Seconds())
	return nil
}

// commit persists the staged state and, only on success, makes it the live
// state. A failed snapshot write leaves the running store exactly as it was,
// so callers can surface the error without a half-applied mutation.
func (s *Store) commit(st *state) error {
	if err := s.persist(st); err != nil {
		return err
	}
	s.st = st
	return nil
}

// stage copies the live state so a mutation can be built without touching
// it. Tables are copied; the rows themselves are values.
func (s *Store) stage() *state {
	st := *s.st
	st.Categories = append([]models.Category(nil), s.st.Categories...)
	st.Products = append([]models.Product(nil), s.st.Products...)
	st.Sales = append([]models.Sale(nil), s.st.Sales...)
	st.SaleItems = append([]models.SaleItem(nil), s.st.SaleItems...)
	return &st
}

// load reads the persisted image. Returns ErrSnapshotMissing when the slot
// is empty and ErrSnapshotCorrupt (wrapping the cause) when it cannot be
// decoded or carries an unknown schema version.
func (s *Store) load() (*state, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotBucket)
		if b == nil {
			return nil
		}
		if v := b.Get(snapshotKey); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if data == nil {
		return nil, models.ErrSnapshotMissing
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSnapshotCorrupt, err)
	}
	if st.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", models.ErrSnapshotCorrupt, st.SchemaVersion)
	}
	if st.Settings == nil {
		return nil, fmt.Errorf("%w: missing settings row", models.ErrSnapshotCorrupt)
	}
	return &st, nil
}
