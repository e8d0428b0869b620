package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	err     error
	lists   int
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			t := f.tickets[i]
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListCreatedBetween(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	f.lists++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	window := domain.Window{Start: filter.CreatedFrom, End: filter.CreatedTo}
	var out []domain.Ticket
	for _, t := range f.tickets {
		if !window.Contains(t.CreatedAt) {
			continue
		}
		if filter.SectorID != nil && (t.SectorID == nil || *t.SectorID != *filter.SectorID) {
			continue
		}
		out = append(out, t)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

type fakePolicyRepo struct {
	policies []domain.Policy
	err      error
}

func (f *fakePolicyRepo) List(context.Context) ([]domain.Policy, error) {
	return f.policies, f.err
}

func (f *fakePolicyRepo) GetBySector(_ context.Context, sectorID string) (*domain.Policy, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.policies {
		if f.policies[i].SectorID == sectorID {
			p := f.policies[i]
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = raw
	return nil
}
