package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/scoring"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/platform/logging"
)

// RecomputeResult summarizes one full recompute.
type RecomputeResult struct {
	Users   int
	Changed int
}

type ScoringService struct {
	uow    storage.UnitOfWork
	logger *logging.Logger
}

func NewScoringService(uow storage.UnitOfWork, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{uow: uow, logger: logger}
}

// RecomputeAll rebuilds every user's total in a single unit of work.
func (s *ScoringService) RecomputeAll(ctx context.Context) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeAll")
	defer span.End()

	var result RecomputeResult
	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		result, err = recomputeScores(ctx, repos)
		return err
	})
	if err != nil {
		return RecomputeResult{}, err
	}

	s.logger.InfoContext(ctx, "scores recomputed", "users", result.Users, "changed", result.Changed)
	return result, nil
}

// recomputeScores runs inside the caller's unit of work so the totals commit or
// roll back together with the mutation that triggered them.
func recomputeScores(ctx context.Context, repos storage.Repositories) (RecomputeResult, error) {
	users, err := repos.Users.List(ctx)
	if err != nil {
		return RecomputeResult{}, crerr.Wrap(err, "list users")
	}
	decided, err := repos.Matches.ListDecided(ctx)
	if err != nil {
		return RecomputeResult{}, crerr.Wrap(err, "list decided matches")
	}
	predictions, err := repos.Predictions.List(ctx)
	if err != nil {
		return RecomputeResult{}, crerr.Wrap(err, "list predictions")
	}

	changed := scoring.Changed(users, scoring.Tally(users, decided, predictions))
	if len(changed) > 0 {
		if err := repos.Users.SetPoints(ctx, changed); err != nil {
			return RecomputeResult{}, crerr.Wrap(err, "persist points")
		}
	}

	return RecomputeResult{Users: len(users), Changed: len(changed)}, nil
}
