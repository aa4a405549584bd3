package state

import (
	"context"
	"sync"

	"github.com/ivanoskov/vacancy_bot/internal/model"
)

// MemoryStore хранит состояния в памяти процесса
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]model.UserState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]model.UserState)}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*model.UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	c := st.Clone()
	return &c, nil
}

func (s *MemoryStore) Set(_ context.Context, st model.UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.Version = s.states[st.UserID].Version + 1
	s.states[st.UserID] = st.Clone()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, userID)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.UserState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st.Clone())
	}
	return out, nil
}
