package session

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore keeps sessions in process memory, as raw key/value pairs so it
// shares the partial-presence semantics of RedisStore.
type MemoryStore struct {
	mu     sync.Mutex
	scopes map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scopes: make(map[string]map[string]string)}
}

func (s *MemoryStore) Create(_ context.Context, scope string, sess *Session) error {
	values, err := encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[scope] = values
	return nil
}

func (s *MemoryStore) Get(_ context.Context, scope string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.scopes[scope]
	if !ok {
		return nil, ErrNoSession
	}
	return decode(values)
}

func (s *MemoryStore) UpdateAnswers(_ context.Context, scope string, answers map[string]string) error {
	raw, err := encodeAnswers(answers)
	if err != nil {
		return err
	}
	return s.set(scope, KeyAnswers, raw)
}

func (s *MemoryStore) UpdateCurrentStep(_ context.Context, scope string, step int) error {
	return s.set(scope, KeyCurrentStep, strconv.Itoa(step))
}

func (s *MemoryStore) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
	return nil
}

// Set writes a single raw key; it exists so tests can corrupt a session.
func (s *MemoryStore) Set(scope, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scopes[scope] == nil {
		s.scopes[scope] = map[string]string{}
	}
	s.scopes[scope][key] = value
}

// Delete removes a single raw key.
func (s *MemoryStore) Delete(scope, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes[scope], key)
}

// Len returns the number of raw keys held for scope.
func (s *MemoryStore) Len(scope string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes[scope])
}

func (s *MemoryStore) set(scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.scopes[scope]
	if !ok {
		return ErrNoSession
	}
	if _, ok := values[key]; !ok {
		return ErrNoSession
	}
	values[key] = value
	return nil
}
