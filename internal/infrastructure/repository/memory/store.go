package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/domain/user"
)

type state struct {
	users            map[int64]user.User
	matches          map[int64]match.Match
	predictions      map[int64]prediction.Prediction
	nextUserID       int64
	nextMatchID      int64
	nextPredictionID int64
}

func newState() state {
	return state{
		users:       make(map[int64]user.User),
		matches:     make(map[int64]match.Match),
		predictions: make(map[int64]prediction.Prediction),
	}
}

func (s state) clone() state {
	out := s
	out.users = maps.Clone(s.users)
	out.matches = maps.Clone(s.matches)
	out.predictions = maps.Clone(s.predictions)
	return out
}

// Store keeps users, matches and predictions in process memory. One mutex
// serializes units of work and guards the standalone repositories, and a failed
// unit of work restores the snapshot taken when it started.
type Store struct {
	mu  sync.Mutex
	st  state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			s.st = snapshot
			panic(r)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(ctx, s.repositories(noLock))
}

// Repositories returns repositories usable outside a unit of work. Each call
// holds the store lock for its duration.
func (s *Store) Repositories() storage.Repositories {
	return s.repositories(s.lock)
}

func (s *Store) Users() user.Repository {
	return s.Repositories().Users
}

func (s *Store) Matches() match.Repository {
	return s.Repositories().Matches
}

func (s *Store) Predictions() prediction.Repository {
	return s.Repositories().Predictions
}

func (s *Store) repositories(lock func() func()) storage.Repositories {
	return storage.Repositories{
		Users:       &UserRepository{store: s, lock: lock},
		Matches:     &MatchRepository{store: s, lock: lock},
		Predictions: &PredictionRepository{store: s, lock: lock},
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func noLock() func() {
	return func() {}
}
