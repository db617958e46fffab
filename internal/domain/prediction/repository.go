package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	// Upsert creates the prediction or replaces the choice of the existing one
	// for the same user and match.
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	List(ctx context.Context) ([]Prediction, error)
	ListByUser(ctx context.Context, userID int64) ([]Prediction, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Prediction, error)
	DeleteByMatch(ctx context.Context, matchID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteAll(ctx context.Context) error
}
