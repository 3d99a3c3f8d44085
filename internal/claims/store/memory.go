package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// Memory is an in-memory Store used for development and as the test double
// for the registry and handlers. It hands out copies, never its own
// records.
type Memory struct {
	mu       sync.RWMutex
	byID     map[string]models.ClaimRecord
	order    []string // insertion order, oldest first
	nowFn    func() time.Time
	FailWith error // when set, every call fails with this error
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:  make(map[string]models.ClaimRecord),
		nowFn: time.Now,
	}
}

// WithClock overrides the creation timestamp source. Test helper.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.nowFn = now
	return m
}

func (m *Memory) ListClaims(_ context.Context) ([]models.ClaimRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]models.ClaimRecord, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- { // newest first
		out = append(out, m.byID[m.order[i]].Clone())
	}
	return out, nil
}

func (m *Memory) GetClaim(_ context.Context, id string) (*models.ClaimRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	rec, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "claim not found")
	}
	cp := rec.Clone()
	return &cp, nil
}

func (m *Memory) CreateClaim(_ context.Context, draft models.ClaimRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	rec := draft.Clone()
	rec.ID = uuid.NewString()
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}
	if !rec.CreatedAt.Valid {
		rec.CreatedAt = models.Timestamp(m.nowFn().UTC())
	}
	m.byID[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return rec.ID, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id string, status models.ClaimStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	rec, ok := m.byID[id]
	if !ok {
		return domainerrors.New(domainerrors.CodeNotFound, "claim not found")
	}
	rec.Status = status
	m.byID[id] = rec
	return nil
}

var _ Store = (*Memory)(nil)
