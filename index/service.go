package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// State describes the lifecycle of the index service.
type State int32

const (
	// StateUninitialized means no load has been attempted yet.
	StateUninitialized State = iota
	// StateLoading means a load is in flight and no generation has ever
	// become ready.
	StateLoading
	// StateReady means a generation is available for searching.
	StateReady
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Service owns the process-wide index state. Searches read the active
// generation through an atomic pointer and keep using the snapshot they
// acquired for their whole lifetime, so a concurrent Reload never changes
// results mid-query. Reloads build the new generation aside and swap it in
// only on success; a failed reload leaves the previous generation serving.
type Service struct {
	loader       *Loader
	modelVersion string
	logger       *slog.Logger

	reloadMu sync.Mutex
	active   atomic.Pointer[Generation]
	state    atomic.Int32
}

// NewService creates an index service pinned to one embedding model version.
// The service starts uninitialized; call Reload to build the first
// generation.
func NewService(loader *Loader, modelVersion string) *Service {
	return &Service{
		loader:       loader,
		modelVersion: modelVersion,
		logger:       slog.Default().With("component", "index.service"),
	}
}

// ModelVersion returns the embedding model version the service indexes.
func (s *Service) ModelVersion() string { return s.modelVersion }

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Active returns the generation currently serving searches, or nil if no
// load has succeeded yet. Callers hold the returned snapshot for the whole
// query; it is immutable and unaffected by later reloads.
func (s *Service) Active() *Generation {
	return s.active.Load()
}

// Reload rebuilds the index from storage and atomically swaps it in.
// Concurrent reloads are serialized. Searches running against the previous
// generation are unaffected.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.active.Load() == nil {
		s.state.Store(int32(StateLoading))
	}

	gen, err := s.loader.Load(ctx, s.modelVersion)
	if err != nil {
		if s.active.Load() == nil {
			s.state.Store(int32(StateUninitialized))
		}
		return fmt.Errorf("reloading index: %w", err)
	}

	previous := s.active.Swap(gen)
	s.state.Store(int32(StateReady))

	if previous != nil {
		s.logger.Info("index generation swapped",
			"items", gen.Len(),
			"previous_items", previous.Len())
	}
	return nil
}
