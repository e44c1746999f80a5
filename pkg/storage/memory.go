package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

type memoryEntry struct {
	seq    int64
	record models.ResultRecord
}

// MemoryStore keeps records in memory. It backs store-less local runs and
// tests, with the same latest/recent semantics as the Postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	nextSeq int64
	byUser  map[string][]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]memoryEntry)}
}

func (m *MemoryStore) Insert(ctx context.Context, record *models.ResultRecord) error {
	if err := ctx.Err(); err != nil {
		return PersistenceError{reason: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	m.byUser[record.UserID] = append(m.byUser[record.UserID], memoryEntry{seq: m.nextSeq, record: *record})
	return nil
}

func (m *MemoryStore) LatestFor(ctx context.Context, userID string) (*models.ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.byUser[userID]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.record.Timestamp > best.record.Timestamp ||
			(e.record.Timestamp == best.record.Timestamp && e.seq > best.seq) {
			best = e
		}
	}
	record := best.record
	return &record, nil
}

func (m *MemoryStore) RecentFor(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := append([]memoryEntry(nil), m.byUser[userID]...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].record.Timestamp != entries[j].record.Timestamp {
			return entries[i].record.Timestamp > entries[j].record.Timestamp
		}
		return entries[i].seq > entries[j].seq
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	records := make([]models.ResultRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.record)
	}
	return records, nil
}
