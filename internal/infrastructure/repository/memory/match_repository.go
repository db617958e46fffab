package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/bolao/internal/domain/match"
)

type MatchRepository struct {
	store *Store
	lock  func() func()
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	defer r.lock()()

	st := &r.store.st
	st.nextMatchID++
	now := r.store.now().UTC()
	m.ID = st.nextMatchID
	m.KickoffAt = m.KickoffAt.UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	st.matches[m.ID] = m
	return m, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	defer r.lock()()

	m, ok := r.store.st.matches[id]
	return m, ok, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	defer r.lock()()

	return r.list(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) ListDecided(_ context.Context) ([]match.Match, error) {
	defer r.lock()()

	return r.list(match.Match.Decided), nil
}

func (r *MatchRepository) list(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.store.st.matches))
	for _, m := range r.store.st.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	defer r.lock()()

	current, ok := r.store.st.matches[m.ID]
	if !ok {
		return nil
	}
	current.ParticipantA = m.ParticipantA
	current.ParticipantB = m.ParticipantB
	current.KickoffAt = m.KickoffAt.UTC()
	current.UpdatedAt = r.store.now().UTC()
	r.store.st.matches[m.ID] = current
	return nil
}

func (r *MatchRepository) SetOutcome(_ context.Context, id int64, outcome match.Outcome) error {
	defer r.lock()()

	current, ok := r.store.st.matches[id]
	if !ok {
		return nil
	}
	current.Outcome = outcome
	current.UpdatedAt = r.store.now().UTC()
	r.store.st.matches[id] = current
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()

	delete(r.store.st.matches, id)
	return nil
}

func (r *MatchRepository) DeleteAll(_ context.Context) error {
	defer r.lock()()

	clear(r.store.st.matches)
	return nil
}
