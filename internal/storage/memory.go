package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cashsaver/internal/core"
)

// MemoryStore is a ledger.Store and settings store kept entirely in memory.
// It backs the default data backend for local runs and the fakes in tests.
type MemoryStore struct {
	mu       sync.Mutex
	goals    map[uuid.UUID]core.Goal
	deposits map[uuid.UUID]core.Deposit
	settings map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		goals:    make(map[uuid.UUID]core.Goal),
		deposits: make(map[uuid.UUID]core.Deposit),
		settings: make(map[string]string),
	}
}

func (s *MemoryStore) SaveGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return nil
}

func (s *MemoryStore) InsertDeposit(_ context.Context, d core.Deposit, updated core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deposits[d.ID] = d
	s.goals[updated.ID] = updated
	return nil
}

func (s *MemoryStore) DeleteDeposit(_ context.Context, depositID uuid.UUID, updated core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deposits, depositID)
	s.goals[updated.ID] = updated
	return nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, goalID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.goals, goalID)
	for id, d := range s.deposits {
		if d.GoalID == goalID {
			delete(s.deposits, id)
		}
	}
	return nil
}

func (s *MemoryStore) LoadGoals(_ context.Context) ([]core.Goal, []core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := make([]core.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	deposits := make([]core.Deposit, 0, len(s.deposits))
	for _, d := range s.deposits {
		deposits = append(deposits, d)
	}
	return goals, deposits, nil
}

func (s *MemoryStore) SetSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	return v, ok, nil
}

func (s *MemoryStore) Close() error { return nil }
