package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sycno15/weather-data-analyser/internal/table"
)

// Dataset is a named weather table held server-side so the presentation
// layers can query its aggregates repeatedly.
type Dataset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Source    string       `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
	Table     *table.Table `json:"-"`
}

type storeItem struct {
	dataset   *Dataset
	expiresAt time.Time
}

// DatasetStore keeps datasets in memory with TTL expiry and a size cap.
// Sessions are ephemeral; an expired dataset simply has to be uploaded or
// fetched again.
type DatasetStore struct {
	mu              sync.RWMutex
	items           map[string]storeItem
	logger          *zap.Logger
	ttl             time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

func NewDatasetStore(ttl time.Duration, maxSize int, logger *zap.Logger) *DatasetStore {
	store := &DatasetStore{
		items:           make(map[string]storeItem),
		logger:          logger,
		ttl:             ttl,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go store.startCleanup()

	return store
}

// Put stores a dataset under its ID, evicting the oldest entry when the
// store is full. Re-putting an existing ID refreshes its TTL.
func (s *DatasetStore) Put(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[ds.ID]; !exists && len(s.items) >= s.maxSize {
		s.evictOldest()
	}

	s.items[ds.ID] = storeItem{
		dataset:   ds,
		expiresAt: time.Now().Add(s.ttl),
	}

	s.logger.Debug("Dataset stored",
		zap.String("id", ds.ID),
		zap.String("source", ds.Source),
		zap.Int("rows", ds.Table.Len()))
}

// Get returns a dataset if present and not expired.
func (s *DatasetStore) Get(id string) (*Dataset, bool) {
	s.mu.RLock()
	item, exists := s.items[id]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		// Re-check under the write lock: a concurrent Put may have
		// refreshed this ID after the read lock was released.
		s.mu.Lock()
		if cur, ok := s.items[id]; ok && time.Now().After(cur.expiresAt) {
			delete(s.items, id)
		}
		s.mu.Unlock()
		return nil, false
	}

	return item.dataset, true
}

// Delete removes a dataset.
func (s *DatasetStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// List returns the live datasets, unordered.
func (s *DatasetStore) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	out := make([]*Dataset, 0, len(s.items))
	for _, item := range s.items {
		if now.After(item.expiresAt) {
			continue
		}
		out = append(out, item.dataset)
	}
	return out
}

func (s *DatasetStore) evictOldest() {
	var oldestID string
	var oldestTime time.Time

	for id, item := range s.items {
		if oldestID == "" || item.expiresAt.Before(oldestTime) {
			oldestID = id
			oldestTime = item.expiresAt
		}
	}

	if oldestID != "" {
		delete(s.items, oldestID)
		s.logger.Debug("Evicted oldest dataset", zap.String("id", oldestID))
	}
}

func (s *DatasetStore) startCleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *DatasetStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expired := 0
	for id, item := range s.items {
		if now.After(item.expiresAt) {
			delete(s.items, id)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug("Cleaned expired datasets", zap.Int("count", expired))
	}
}

func (s *DatasetStore) Stop() {
	close(s.stopCleanup)
}

func (s *DatasetStore) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"datasets": len(s.items),
		"max_size": s.maxSize,
		"ttl":      s.ttl.String(),
	}
}
