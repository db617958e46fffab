package storage

import (
	"context"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/user"
)

// Repositories groups the stores a unit of work hands to its callback.
type Repositories struct {
	Users       user.Repository
	Matches     match.Repository
	Predictions prediction.Repository
}

// UnitOfWork runs fn atomically. Writes made through repos are committed when fn
// returns nil and discarded otherwise. Units of work are serialized against
// each other so a recompute always reads a consistent snapshot.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
