// Package pairstate persists the held-asset state of every configured pair
// so restarts resume rotations where they left off.
package pairstate

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/rotor/internal/domain"
)

// Store is a durable pair name -> held asset mapping backed by a single JSON
// file. Writes go through a temp file and rename, so a crash mid-write never
// leaves a torn state file, and reads after a Save always observe it.
type Store struct {
	mu     sync.Mutex
	path   string
	states map[string]domain.PairState
}

// NewStore opens (or creates) the state file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, states: make(map[string]domain.PairState)}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read pair state file")
	}
	if len(payload) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(payload, &s.states); err != nil {
		return nil, errors.Wrap(err, "decode pair state file")
	}
	return s, nil
}

// State returns the persisted state for the pair, creating and persisting a
// default (holding defaultAsset) on first reference.
func (s *Store) State(name, defaultAsset string) (domain.PairState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[name]; ok {
		return state, nil
	}

	state := domain.PairState{CurrentAsset: defaultAsset}
	s.states[name] = state
	if err := s.flush(); err != nil {
		return domain.PairState{}, err
	}
	return state, nil
}

// Save persists a state change synchronously.
func (s *Store) Save(name string, state domain.PairState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[name] = state
	return s.flush()
}

// All returns a copy of every stored pair state.
func (s *Store) All() map[string]domain.PairState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.PairState, len(s.states))
	for name, state := range s.states {
		out[name] = state
	}
	return out
}

func (s *Store) flush() error {
	payload, err := json.MarshalIndent(s.states, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode pair states")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write pair state temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist pair state file")
	}
	return nil
}
