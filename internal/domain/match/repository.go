package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, m Match) (Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	// List returns every match ordered by kickoff, then id.
	List(ctx context.Context) ([]Match, error)
	ListDecided(ctx context.Context) ([]Match, error)
	// Update writes participants and kickoff only.
	Update(ctx context.Context, m Match) error
	SetOutcome(ctx context.Context, id int64, outcome Outcome) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}
