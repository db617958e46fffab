package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/domain/user"
	"github.com/riskibarqy/bolao/internal/platform/logging"
)

// MatchInput is the admin payload for creating or editing a match.
type MatchInput struct {
	ParticipantA string
	ParticipantB string
	KickoffAt    string
}

type MatchService struct {
	uow      storage.UnitOfWork
	matches  match.Repository
	location *time.Location
	logger   *logging.Logger
}

func NewMatchService(uow storage.UnitOfWork, matches match.Repository, location *time.Location, logger *logging.Logger) *MatchService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		uow:      uow,
		matches:  matches,
		location: location,
		logger:   logger,
	}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matches.List(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}
	return items, nil
}

func (s *MatchService) Get(ctx context.Context, id int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	m, ok, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, crerr.Wrapf(err, "get match id=%d", id)
	}
	if !ok {
		return match.Match{}, crerr.Wrapf(ErrNotFound, "match id=%d", id)
	}
	return m, nil
}

func (s *MatchService) Create(ctx context.Context, actor user.Principal, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	if !actor.CanManageMatches() {
		return match.Match{}, crerr.Wrap(ErrForbidden, "only admins create matches")
	}
	m, err := s.parseInput(input)
	if err != nil {
		return match.Match{}, err
	}

	var created match.Match
	err = s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		var err error
		created, err = repos.Matches.Create(ctx, m)
		return crerr.Wrap(err, "create match")
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match created", "match_id", created.ID, "actor_id", actor.UserID, "title", created.Title())
	return created, nil
}

// Update edits participants and kickoff. The recorded outcome is kept.
func (s *MatchService) Update(ctx context.Context, actor user.Principal, id int64, input MatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	if !actor.CanManageMatches() {
		return match.Match{}, crerr.Wrap(ErrForbidden, "only admins edit matches")
	}
	next, err := s.parseInput(input)
	if err != nil {
		return match.Match{}, err
	}

	var updated match.Match
	err = s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		current, ok, err := repos.Matches.GetByID(ctx, id)
		if err != nil {
			return crerr.Wrapf(err, "get match id=%d", id)
		}
		if !ok {
			return crerr.Wrapf(ErrNotFound, "match id=%d", id)
		}

		current.ParticipantA = next.ParticipantA
		current.ParticipantB = next.ParticipantB
		current.KickoffAt = next.KickoffAt
		if err := repos.Matches.Update(ctx, current); err != nil {
			return crerr.Wrapf(err, "update match id=%d", id)
		}
		updated = current
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match updated", "match_id", id, "actor_id", actor.UserID)
	return updated, nil
}

// Delete removes the predictions of the match, then the match, then recomputes.
func (s *MatchService) Delete(ctx context.Context, actor user.Principal, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	if !actor.CanManageMatches() {
		return crerr.Wrap(ErrForbidden, "only admins delete matches")
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, ok, err := repos.Matches.GetByID(ctx, id); err != nil {
			return crerr.Wrapf(err, "get match id=%d", id)
		} else if !ok {
			return crerr.Wrapf(ErrNotFound, "match id=%d", id)
		}

		if err := repos.Predictions.DeleteByMatch(ctx, id); err != nil {
			return crerr.Wrapf(err, "delete predictions match id=%d", id)
		}
		if err := repos.Matches.Delete(ctx, id); err != nil {
			return crerr.Wrapf(err, "delete match id=%d", id)
		}
		_, err := recomputeScores(ctx, repos)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", id, "actor_id", actor.UserID)
	return nil
}

// RecordOutcome sets the outcome, overwriting any earlier one, and recomputes.
func (s *MatchService) RecordOutcome(ctx context.Context, actor user.Principal, id int64, label string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordOutcome")
	defer span.End()

	if !actor.CanManageMatches() {
		return match.Match{}, crerr.Wrap(ErrForbidden, "only admins record outcomes")
	}

	var decided match.Match
	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		m, ok, err := repos.Matches.GetByID(ctx, id)
		if err != nil {
			return crerr.Wrapf(err, "get match id=%d", id)
		}
		if !ok {
			return crerr.Wrapf(ErrNotFound, "match id=%d", id)
		}

		outcome, err := match.ParseOutcome(label, m)
		if err != nil {
			return invalidInput(err)
		}
		if err := repos.Matches.SetOutcome(ctx, id, outcome); err != nil {
			return crerr.Wrapf(err, "set outcome match id=%d", id)
		}
		m.Outcome = outcome
		decided = m

		_, err = recomputeScores(ctx, repos)
		return err
	})
	if err != nil {
		return match.Match{}, err
	}

	s.logger.InfoContext(ctx, "match outcome recorded",
		"match_id", id,
		"outcome", string(decided.Outcome),
		"actor_id", actor.UserID,
	)
	return decided, nil
}

func (s *MatchService) parseInput(input MatchInput) (match.Match, error) {
	a, b, err := match.NormalizeParticipants(input.ParticipantA, input.ParticipantB)
	if err != nil {
		return match.Match{}, invalidInput(err)
	}
	kickoff, err := match.ParseKickoff(input.KickoffAt, s.location)
	if err != nil {
		return match.Match{}, invalidInput(err)
	}
	return match.Match{ParticipantA: a, ParticipantB: b, KickoffAt: kickoff}, nil
}
