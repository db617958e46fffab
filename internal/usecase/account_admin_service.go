package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/domain/user"
	"github.com/riskibarqy/bolao/internal/platform/logging"
)

// AccountAdminService holds the role-gated account operations.
type AccountAdminService struct {
	uow      storage.UnitOfWork
	users    user.Repository
	sessions *SessionService
	logger   *logging.Logger
}

func NewAccountAdminService(uow storage.UnitOfWork, users user.Repository, sessions *SessionService, logger *logging.Logger) *AccountAdminService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccountAdminService{
		uow:      uow,
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *AccountAdminService) ListUsers(ctx context.Context, actor user.Principal) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountAdminService.ListUsers")
	defer span.End()

	if !actor.CanManageMatches() {
		return nil, crerr.Wrap(ErrForbidden, "only admins list users")
	}
	items, err := s.users.List(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "list users")
	}
	return items, nil
}

// EditName renames target: users rename themselves, admins rename anyone but
// the owner.
func (s *AccountAdminService) EditName(ctx context.Context, actor user.Principal, targetID int64, name string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountAdminService.EditName")
	defer span.End()

	if !actor.Authenticated() {
		return user.User{}, ErrUnauthorized
	}
	name, err := user.NormalizeName(name)
	if err != nil {
		return user.User{}, invalidInput(err)
	}

	var renamed user.User
	err = s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		target, err := getUser(ctx, repos.Users, targetID)
		if err != nil {
			return err
		}
		if !actor.CanEditName(target) {
			return crerr.Wrapf(ErrForbidden, "user id=%d cannot rename user id=%d", actor.UserID, targetID)
		}

		target.Name = name
		if err := repos.Users.Update(ctx, target); err != nil {
			return crerr.Wrapf(err, "update user id=%d", targetID)
		}
		renamed = target
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	s.logger.InfoContext(ctx, "user renamed", "user_id", targetID, "actor_id", actor.UserID)
	return renamed, nil
}

// ToggleAdmin flips the admin flag of a non-owner account. Owner only.
func (s *AccountAdminService) ToggleAdmin(ctx context.Context, actor user.Principal, targetID int64) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountAdminService.ToggleAdmin")
	defer span.End()

	if !actor.CanManageAccounts() {
		return user.User{}, crerr.Wrap(ErrForbidden, "only the owner manages admins")
	}

	var toggled user.User
	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		target, err := getUser(ctx, repos.Users, targetID)
		if err != nil {
			return err
		}
		if target.IsOwner {
			return crerr.Wrap(ErrForbidden, "the owner cannot be demoted")
		}

		target.IsAdmin = !target.IsAdmin
		if err := repos.Users.Update(ctx, target); err != nil {
			return crerr.Wrapf(err, "update user id=%d", targetID)
		}
		toggled = target
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	s.logger.InfoContext(ctx, "admin flag toggled", "user_id", targetID, "is_admin", toggled.IsAdmin)
	return toggled, nil
}

// DeleteUser removes a non-owner account and its predictions. Owner only.
func (s *AccountAdminService) DeleteUser(ctx context.Context, actor user.Principal, targetID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountAdminService.DeleteUser")
	defer span.End()

	if !actor.CanManageAccounts() {
		return crerr.Wrap(ErrForbidden, "only the owner deletes users")
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		target, err := getUser(ctx, repos.Users, targetID)
		if err != nil {
			return err
		}
		if target.IsOwner {
			return crerr.Wrap(ErrForbidden, "the owner cannot be deleted")
		}

		if err := repos.Predictions.DeleteByUser(ctx, targetID); err != nil {
			return crerr.Wrapf(err, "delete predictions user id=%d", targetID)
		}
		return crerr.Wrapf(repos.Users.Delete(ctx, targetID), "delete user id=%d", targetID)
	})
	if err != nil {
		return err
	}

	revoked := s.sessions.RevokeUser(ctx, targetID)
	s.logger.InfoContext(ctx, "user deleted", "user_id", targetID, "revoked_sessions", revoked)
	return nil
}

// ResetChampionship clears matches and predictions, zeroes every total and
// demotes every admin except the owner. Owner only.
func (s *AccountAdminService) ResetChampionship(ctx context.Context, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountAdminService.ResetChampionship")
	defer span.End()

	if !actor.CanManageAccounts() {
		return crerr.Wrap(ErrForbidden, "only the owner resets the championship")
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if err := repos.Predictions.DeleteAll(ctx); err != nil {
			return crerr.Wrap(err, "delete predictions")
		}
		if err := repos.Matches.DeleteAll(ctx); err != nil {
			return crerr.Wrap(err, "delete matches")
		}
		if err := repos.Users.DemoteAdmins(ctx); err != nil {
			return crerr.Wrap(err, "demote admins")
		}
		_, err := recomputeScores(ctx, repos)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "championship reset", "actor_id", actor.UserID)
	return nil
}

func getUser(ctx context.Context, users user.Repository, id int64) (user.User, error) {
	u, ok, err := users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, crerr.Wrapf(err, "get user id=%d", id)
	}
	if !ok {
		return user.User{}, crerr.Wrapf(ErrNotFound, "user id=%d", id)
	}
	return u, nil
}
