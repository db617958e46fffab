package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bolao/internal/domain/prediction"
	qb "github.com/riskibarqy/bolao/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db sqlx.ExtContext
}

func NewPredictionRepository(db sqlx.ExtContext) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	query, args, err := qb.InsertInto("predictions").
		Columns("user_id", "match_id", "choice").
		Values(p.UserID, p.MatchID, string(p.Choice)).
		Suffix("ON CONFLICT (user_id, match_id) DO UPDATE SET choice = EXCLUDED.choice, updated_at = NOW() RETURNING " + joinColumns(predictionColumns)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PredictionRepository) List(ctx context.Context) ([]prediction.Prediction, error) {
	return r.list(ctx)
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID int64) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("user_id", userID))
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID int64) ([]prediction.Prediction, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *PredictionRepository) list(ctx context.Context, where ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(predictionColumns...).
		From("predictions").
		Where(where...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) DeleteByMatch(ctx context.Context, matchID int64) error {
	return r.delete(ctx, qb.Eq("match_id", matchID))
}

func (r *PredictionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.delete(ctx, qb.Eq("user_id", userID))
}

func (r *PredictionRepository) DeleteAll(ctx context.Context) error {
	return r.delete(ctx)
}

func (r *PredictionRepository) delete(ctx context.Context, where ...qb.Condition) error {
	query, args, err := qb.DeleteFrom("predictions").Where(where...).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete predictions query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete predictions: %w", err)
	}
	return nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
