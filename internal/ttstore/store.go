package ttstore

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/gametree/internal/cache"
)

const recordKeyPrefix = "slot:"

// Store wraps a BadgerDB instance holding transposition cache snapshots.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger store at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // the cache's own [cache]/[ttstore] log lines are enough

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ttstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// recordKey keys a snapshot record by the slot index the entry occupied in
// the source cache, per the direct-modulo addressing scheme the core cache
// uses (fingerprint mod N).
func recordKey(slot int) []byte {
	key := make([]byte, len(recordKeyPrefix)+8)
	copy(key, recordKeyPrefix)
	binary.BigEndian.PutUint64(key[len(recordKeyPrefix):], uint64(slot))
	return key
}

// encodeEntry packs a cache.RawEntry into a fixed 16-byte record:
// fingerprint (8) | value (4) | quality (2) | age (2).
func encodeEntry(e cache.RawEntry) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], e.Fingerprint)
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(e.Value))
	binary.BigEndian.PutUint16(buf[12:14], uint16(e.Quality))
	binary.BigEndian.PutUint16(buf[14:16], uint16(e.Age))
	return buf
}

func decodeEntry(buf []byte) (cache.RawEntry, error) {
	if len(buf) != 16 {
		return cache.RawEntry{}, fmt.Errorf("ttstore: malformed record (%d bytes)", len(buf))
	}
	return cache.RawEntry{
		Fingerprint: binary.BigEndian.Uint64(buf[0:8]),
		Value:       math.Float32frombits(binary.BigEndian.Uint32(buf[8:12])),
		Quality:     int16(binary.BigEndian.Uint16(buf[12:14])),
		Age:         int16(binary.BigEndian.Uint16(buf[14:16])),
	}, nil
}

// SnapshotCache writes every live entry of c to the store, each keyed by the
// slot index it occupied. Prior records under the same prefix are cleared
// first so a restore sees exactly c's current contents.
func (s *Store) SnapshotCache(c *cache.Cache) error {
	entries := c.Snapshot()
	size := uint64(c.Size())

	err := s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordKeyPrefix)
		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, append([]byte(nil), it.Item().Key()...))
		}
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, e := range entries {
			slot := int(e.Fingerprint % size)
			if err := txn.Set(recordKey(slot), encodeEntry(e)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ttstore: snapshot: %w", err)
	}

	log.Printf("[ttstore] snapshotted %d live entries", len(entries))
	return nil
}

// RestoreCache reads every record back and replaces c's contents with them
// via Cache.Restore, bypassing the quality gate since this is a verbatim
// replay of state the cache already accepted once.
func (s *Store) RestoreCache(c *cache.Cache) error {
	var entries []cache.RawEntry

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				e, err := decodeEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ttstore: restore: %w", err)
	}

	c.Restore(entries)
	log.Printf("[ttstore] restored %d live entries", len(entries))
	return nil
}
