package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
	"github.com/aurum-app/aurum/pkg/validation"
)

var bucketSubscriptions = []byte("subscriptions")

// BoltStore is a subscription registry backed by a bbolt database,
// keyed by endpoint. bbolt serializes write transactions itself, so the
// read-mutate-persist cycle of each mutation runs inside one Update
// transaction.
type BoltStore struct {
	logger *logger.Logger
	db     *bolt.DB
	cap    int
}

// OpenBolt opens (creating if needed) a bbolt-backed store at path.
func OpenBolt(path string, cap int, logger *logger.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketSubscriptions)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, cap: cap, logger: logger}, nil
}

func (s *BoltStore) Get() []models.PushSubscription {
	var subs []models.PushSubscription
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSubscriptions)
		return b.ForEach(func(k, v []byte) error {
			var sub models.PushSubscription
			if err := json.Unmarshal(v, &sub); err != nil {
				return err
			}
			subs = append(subs, sub)
			return nil
		})
	})
	if err != nil {
		s.logger.Warn("Failed to read bolt store, treating as empty ", "error ", err)
		return nil
	}
	return subs
}

func (s *BoltStore) Add(sub models.PushSubscription) error {
	if err := validation.ValidateEndpoint(sub.Endpoint); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidEndpoint, err)
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSubscriptions)
		if b.Get([]byte(sub.Endpoint)) != nil {
			return nil
		}
		if b.Stats().KeyN >= s.cap {
			return models.ErrStoreFull
		}
		return b.Put([]byte(sub.Endpoint), data)
	})
}

func (s *BoltStore) Remove(endpoint string) error {
	return s.RemoveAll([]string{endpoint})
}

func (s *BoltStore) RemoveAll(endpoints []string) error {
	if len(endpoints) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSubscriptions)
		for _, endpoint := range endpoints {
			if err := b.Delete([]byte(endpoint)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Count() int {
	count := 0
	_ = s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketSubscriptions).Stats().KeyN
		return nil
	})
	return count
}

func (s *BoltStore) Close() error { return s.db.Close() }
