package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/bolao/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
	lock  func() func()
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	defer r.lock()()

	st := &r.store.st
	now := r.store.now().UTC()
	for id, existing := range st.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			existing.Choice = p.Choice
			existing.UpdatedAt = now
			st.predictions[id] = existing
			return existing, nil
		}
	}

	st.nextPredictionID++
	p.ID = st.nextPredictionID
	p.CreatedAt = now
	p.UpdatedAt = now
	st.predictions[p.ID] = p
	return p, nil
}

func (r *PredictionRepository) List(_ context.Context) ([]prediction.Prediction, error) {
	defer r.lock()()

	return r.filter(func(prediction.Prediction) bool { return true }), nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID int64) ([]prediction.Prediction, error) {
	defer r.lock()()

	return r.filter(func(p prediction.Prediction) bool { return p.UserID == userID }), nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID int64) ([]prediction.Prediction, error) {
	defer r.lock()()

	return r.filter(func(p prediction.Prediction) bool { return p.MatchID == matchID }), nil
}

func (r *PredictionRepository) DeleteByMatch(_ context.Context, matchID int64) error {
	defer r.lock()()

	r.deleteWhere(func(p prediction.Prediction) bool { return p.MatchID == matchID })
	return nil
}

func (r *PredictionRepository) DeleteByUser(_ context.Context, userID int64) error {
	defer r.lock()()

	r.deleteWhere(func(p prediction.Prediction) bool { return p.UserID == userID })
	return nil
}

func (r *PredictionRepository) DeleteAll(_ context.Context) error {
	defer r.lock()()

	clear(r.store.st.predictions)
	return nil
}

func (r *PredictionRepository) filter(keep func(prediction.Prediction) bool) []prediction.Prediction {
	out := make([]prediction.Prediction, 0)
	for _, p := range r.store.st.predictions {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *PredictionRepository) deleteWhere(drop func(prediction.Prediction) bool) {
	for id, p := range r.store.st.predictions {
		if drop(p) {
			delete(r.store.st.predictions, id)
		}
	}
}
