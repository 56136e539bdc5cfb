package memory

import (
	"context"
	"sync"

	"github.com/vkuznetsov/askdata/internal/core/domain"
)

// HistoryLog is the in-process history for demo mode. Append-only with a
// bounded window so long demo sessions do not grow without limit.
type HistoryLog struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
	maxSize int
}

func NewHistoryLog(maxSize int) *HistoryLog {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &HistoryLog{maxSize: maxSize}
}

func (l *HistoryLog) Append(_ context.Context, entry domain.HistoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.maxSize {
		l.entries = l.entries[len(l.entries)-l.maxSize:]
	}
	return nil
}

func (l *HistoryLog) ListRecent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	if limit > len(l.entries) {
		limit = len(l.entries)
	}

	out := make([]domain.HistoryEntry, 0, limit)
	for i := len(l.entries) - 1; i >= len(l.entries)-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}
