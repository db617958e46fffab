package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
)

// BoardMatch is a match as seen by one caller.
type BoardMatch struct {
	Match    match.Match
	MyChoice match.Outcome
	Open     bool
}

type Board struct {
	Matches []BoardMatch
}

// BoardService assembles the match list with the caller's own picks.
type BoardService struct {
	matches     match.Repository
	predictions prediction.Repository
	now         func() time.Time
}

func NewBoardService(matches match.Repository, predictions prediction.Repository) *BoardService {
	return &BoardService{
		matches:     matches,
		predictions: predictions,
		now:         time.Now,
	}
}

// Overview loads matches and, for an authenticated caller, their predictions
// concurrently. userID <= 0 means anonymous.
func (s *BoardService) Overview(ctx context.Context, userID int64) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Overview")
	defer span.End()

	var (
		matches []match.Match
		mine    []prediction.Prediction
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		items, err := s.matches.List(ctx)
		if err != nil {
			return crerr.Wrap(err, "list matches")
		}
		matches = items
		return nil
	})
	if userID > 0 {
		p.Go(func(ctx context.Context) error {
			items, err := s.predictions.ListByUser(ctx, userID)
			if err != nil {
				return crerr.Wrapf(err, "list predictions user id=%d", userID)
			}
			mine = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Board{}, err
	}

	picks := prediction.ByMatch(mine)
	now := s.now()
	out := Board{Matches: make([]BoardMatch, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, BoardMatch{
			Match:    m,
			MyChoice: picks[m.ID].Choice,
			Open:     m.OpenAt(now),
		})
	}
	return out, nil
}
