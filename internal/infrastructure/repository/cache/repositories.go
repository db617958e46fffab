package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/domain/user"
	basecache "github.com/riskibarqy/bolao/internal/platform/cache"
)

const (
	usersPrefix       = "users:"
	matchesPrefix     = "matches:"
	predictionsPrefix = "predictions:"
)

// UnitOfWork drops every cached read after a committed unit of work. Loads that
// were running across the commit are returned to their caller but never cached,
// so reads that start after Do returns see the committed state.
type UnitOfWork struct {
	next  storage.UnitOfWork
	cache *basecache.Store
}

func NewUnitOfWork(next storage.UnitOfWork, cache *basecache.Store) *UnitOfWork {
	return &UnitOfWork{next: next, cache: cache}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error {
	if err := u.next.Do(ctx, fn); err != nil {
		return err
	}
	u.cache.DeletePrefix(ctx, usersPrefix)
	u.cache.DeletePrefix(ctx, matchesPrefix)
	u.cache.DeletePrefix(ctx, predictionsPrefix)
	return nil
}

// Wrap decorates the read side of repos.
func Wrap(repos storage.Repositories, cache *basecache.Store) storage.Repositories {
	return storage.Repositories{
		Users:       NewUserRepository(repos.Users, cache),
		Matches:     NewMatchRepository(repos.Matches, cache),
		Predictions: NewPredictionRepository(repos.Predictions, cache),
	}
}

type UserRepository struct {
	user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{Repository: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	v, err := r.cache.GetOrLoad(ctx, usersPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.Repository.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]user.User)
	return append([]user.User(nil), items...), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	key := usersPrefix + "id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedUser{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	cached, _ := v.(cachedUser)
	return cached.value, cached.exists, nil
}

type cachedUser struct {
	value  user.User
	exists bool
}

type MatchRepository struct {
	match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{Repository: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchesPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.Repository.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	key := matchesPrefix + "id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedMatch{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatch)
	return cached.value, cached.exists, nil
}

type cachedMatch struct {
	value  match.Match
	exists bool
}

type PredictionRepository struct {
	prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{Repository: next, cache: cache}
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID int64) ([]prediction.Prediction, error) {
	key := predictionsPrefix + "user:" + strconv.FormatInt(userID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.Repository.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Prediction(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]prediction.Prediction)
	return append([]prediction.Prediction(nil), items...), nil
}
