package services

import (
	"context"
	"errors"
	"sync"

	"inquiry-backend/application/ports"
	"inquiry-backend/domain/core/aggregates"
)

// stubGenerator replays scripted responses in order
type stubGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, params ports.GenerationParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", errors.New("stub generator exhausted")
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// stubStore is an in-memory ports.ComplexStore
type stubStore struct {
	mu        sync.Mutex
	snapshots map[string]*aggregates.ComplexSnapshot
	saveErr   error
}

func newStubStore() *stubStore {
	return &stubStore{snapshots: make(map[string]*aggregates.ComplexSnapshot)}
}

func (s *stubStore) Save(ctx context.Context, snapshot *aggregates.ComplexSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots[snapshot.ID] = snapshot
	return nil
}

func (s *stubStore) Load(ctx context.Context, complexID string) (*aggregates.ComplexSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.snapshots[complexID]
	if !ok {
		return nil, errors.New("snapshot not found")
	}
	return snapshot, nil
}

var testGenParams = ports.GenerationParams{Temperature: 0.2, MaxTokens: 512}
