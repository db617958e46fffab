package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/platform/logging"
)

// SubmitPredictionInput is the incoming payload for a pick.
type SubmitPredictionInput struct {
	UserID  int64
	MatchID int64
	Choice  string
}

type PredictionService struct {
	uow         storage.UnitOfWork
	predictions prediction.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewPredictionService(uow storage.UnitOfWork, predictions prediction.Repository, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		uow:         uow,
		predictions: predictions,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit creates or overwrites the caller's pick while the match is open and
// recomputes the totals in the same unit of work.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if input.UserID <= 0 {
		return prediction.Prediction{}, crerr.Wrap(ErrUnauthorized, "user id is required")
	}
	if input.MatchID <= 0 {
		return prediction.Prediction{}, crerr.Wrap(ErrInvalidInput, "match id is required")
	}

	var saved prediction.Prediction
	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, ok, err := repos.Users.GetByID(ctx, input.UserID); err != nil {
			return crerr.Wrapf(err, "get user id=%d", input.UserID)
		} else if !ok {
			return crerr.Wrapf(ErrUnauthorized, "user id=%d", input.UserID)
		}

		m, ok, err := repos.Matches.GetByID(ctx, input.MatchID)
		if err != nil {
			return crerr.Wrapf(err, "get match id=%d", input.MatchID)
		}
		if !ok {
			return crerr.Wrapf(ErrNotFound, "match id=%d", input.MatchID)
		}
		if m.Decided() {
			return crerr.Wrapf(ErrMatchClosed, "match id=%d", m.ID)
		}
		if !s.now().Before(m.KickoffAt) {
			return crerr.Wrapf(ErrDeadlinePassed, "match id=%d kicked off at %s", m.ID, m.KickoffAt.Format(time.RFC3339))
		}

		choice, err := match.ParseOutcome(input.Choice, m)
		if err != nil {
			return invalidInput(err)
		}

		saved, err = repos.Predictions.Upsert(ctx, prediction.Prediction{
			UserID:  input.UserID,
			MatchID: m.ID,
			Choice:  choice,
		})
		if err != nil {
			return crerr.Wrap(err, "upsert prediction")
		}

		_, err = recomputeScores(ctx, repos)
		return err
	})
	if err != nil {
		return prediction.Prediction{}, err
	}

	s.logger.InfoContext(ctx, "prediction submitted",
		"user_id", saved.UserID,
		"match_id", saved.MatchID,
		"choice", string(saved.Choice),
	)
	return saved, nil
}

// ListMine returns the caller's predictions keyed by match id.
func (s *PredictionService) ListMine(ctx context.Context, userID int64) (map[int64]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListMine")
	defer span.End()

	if userID <= 0 {
		return map[int64]prediction.Prediction{}, nil
	}

	items, err := s.predictions.ListByUser(ctx, userID)
	if err != nil {
		return nil, crerr.Wrapf(err, "list predictions user id=%d", userID)
	}
	return prediction.ByMatch(items), nil
}
