package usecase

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/domain/user"
	idgen "github.com/riskibarqy/bolao/internal/platform/id"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/platform/password"
)

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginResult struct {
	Session Session
	User    user.User
}

type AccountService struct {
	uow      storage.UnitOfWork
	users    user.Repository
	hasher   PasswordHasher
	tokens   idgen.Generator
	mailer   notification.Sender
	links    notification.Links
	sessions *SessionService
	logger   *logging.Logger
}

func NewAccountService(
	uow storage.UnitOfWork,
	users user.Repository,
	hasher PasswordHasher,
	tokens idgen.Generator,
	mailer notification.Sender,
	links notification.Links,
	sessions *SessionService,
	logger *logging.Logger,
) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccountService{
		uow:      uow,
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		links:    links,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an unverified account and mails its confirmation link. The
// first account of an empty store becomes owner and admin. When the mail cannot
// be sent the account is deleted again and the send error is returned.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Register")
	defer span.End()

	name, err := user.NormalizeName(input.Name)
	if err != nil {
		return user.User{}, invalidInput(err)
	}
	email, err := user.NormalizeEmail(input.Email)
	if err != nil {
		return user.User{}, invalidInput(err)
	}
	if err := password.Validate(input.Password); err != nil {
		return user.User{}, invalidInput(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return user.User{}, crerr.Wrap(err, "hash password")
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		return user.User{}, crerr.Wrap(err, "generate confirmation token")
	}

	var created user.User
	err = s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		if _, exists, err := repos.Users.GetByEmail(ctx, email); err != nil {
			return crerr.Wrap(err, "get user by email")
		} else if exists {
			return crerr.Wrapf(ErrConflict, "email %s is already registered", email)
		}

		created, err = repos.Users.Create(ctx, user.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Token:        token,
		})
		if crerr.Is(err, user.ErrEmailTaken) {
			return crerr.Wrapf(ErrConflict, "email %s is already registered", email)
		}
		return crerr.Wrap(err, "create user")
	})
	if err != nil {
		return user.User{}, err
	}

	msg := notification.ConfirmationMessage(created.Email, created.Name, s.links.ConfirmEmail(token))
	if sendErr := s.mailer.Send(ctx, msg); sendErr != nil {
		s.logger.WarnContext(ctx, "confirmation mail failed, removing account",
			"user_id", created.ID,
			"error", sendErr,
		)
		rollbackErr := s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
			if err := repos.Users.Delete(ctx, created.ID); err != nil {
				return crerr.Wrap(err, "delete user")
			}
			if !created.IsOwner {
				return nil
			}
			// Others may have signed up while the mail was in flight.
			heir, ok, err := repos.Users.ElectOwner(ctx)
			if err != nil {
				return crerr.Wrap(err, "elect owner")
			}
			if ok {
				s.logger.InfoContext(ctx, "ownership passed on", "user_id", heir.ID)
			}
			return nil
		})
		if rollbackErr != nil {
			s.logger.ErrorContext(ctx, "remove account after mail failure", "user_id", created.ID, "error", rollbackErr)
			return user.User{}, crerr.CombineErrors(dependencyUnavailable(sendErr, "send confirmation mail"), rollbackErr)
		}
		return user.User{}, dependencyUnavailable(sendErr, "send confirmation mail")
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", created.ID,
		"is_owner", created.IsOwner,
	)
	return created, nil
}

// Login checks the credentials and opens a session for a verified account.
func (s *AccountService) Login(ctx context.Context, email, plain string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return LoginResult{}, crerr.Wrap(ErrInvalidCredentials, "email and password are required")
	}

	u, ok, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, crerr.Wrap(err, "get user by email")
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, plain); err != nil {
		if crerr.Is(err, password.ErrMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, crerr.Wrap(err, "compare password")
	}
	if !u.IsVerified {
		return LoginResult{}, crerr.Wrapf(ErrNotVerified, "user id=%d", u.ID)
	}

	session, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return LoginResult{Session: session, User: u}, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) {
	s.sessions.Revoke(ctx, token)
}

// Me returns the account behind an authenticated principal.
func (s *AccountService) Me(ctx context.Context, userID int64) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Me")
	defer span.End()

	u, ok, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, crerr.Wrapf(err, "get user id=%d", userID)
	}
	if !ok {
		return user.User{}, crerr.Wrapf(ErrNotFound, "user id=%d", userID)
	}
	return u, nil
}

// ConfirmEmail consumes a one-time token and marks its account verified.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ConfirmEmail")
	defer span.End()

	var confirmed user.User
	err := s.consumeToken(ctx, token, func(u *user.User) error {
		u.IsVerified = true
		confirmed = *u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	s.logger.InfoContext(ctx, "email confirmed", "user_id", confirmed.ID)
	return confirmed, nil
}

// CheckToken reports whether token is still unused.
func (s *AccountService) CheckToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	_, ok, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return crerr.Wrap(err, "get user by token")
	}
	if !ok {
		return ErrInvalidToken
	}
	return nil
}

// ResendConfirmation rotates the token of an unverified account and mails it
// again. Unknown and already verified addresses succeed silently.
func (s *AccountService) ResendConfirmation(ctx context.Context, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ResendConfirmation")
	defer span.End()

	u, token, err := s.rotateToken(ctx, email, func(u user.User) bool { return !u.IsVerified })
	if err != nil || token == "" {
		return err
	}

	msg := notification.ConfirmationMessage(u.Email, u.Name, s.links.ConfirmEmail(token))
	if err := s.mailer.Send(ctx, msg); err != nil {
		return dependencyUnavailable(err, "send confirmation mail")
	}
	return nil
}

// RequestPasswordReset rotates the token and mails a reset link. Unknown
// addresses succeed silently so accounts cannot be enumerated.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.RequestPasswordReset")
	defer span.End()

	u, token, err := s.rotateToken(ctx, email, func(user.User) bool { return true })
	if err != nil || token == "" {
		return err
	}

	msg := notification.PasswordResetMessage(u.Email, u.Name, s.links.ResetPassword(token))
	if err := s.mailer.Send(ctx, msg); err != nil {
		return dependencyUnavailable(err, "send password reset mail")
	}
	return nil
}

// ResetPassword consumes the token, stores the new password and marks the
// account verified. Open sessions of the account are ended.
func (s *AccountService) ResetPassword(ctx context.Context, token, plain string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.ResetPassword")
	defer span.End()

	if err := password.Validate(plain); err != nil {
		return invalidInput(err)
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return crerr.Wrap(err, "hash password")
	}

	var userID int64
	err = s.consumeToken(ctx, token, func(u *user.User) error {
		u.PasswordHash = hash
		u.IsVerified = true
		userID = u.ID
		return nil
	})
	if err != nil {
		return err
	}

	revoked := s.sessions.RevokeUser(ctx, userID)
	s.logger.InfoContext(ctx, "password reset", "user_id", userID, "revoked_sessions", revoked)
	return nil
}

func (s *AccountService) consumeToken(ctx context.Context, token string, apply func(u *user.User) error) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}

	return s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		u, ok, err := repos.Users.GetByToken(ctx, token)
		if err != nil {
			return crerr.Wrap(err, "get user by token")
		}
		if !ok {
			return ErrInvalidToken
		}
		if err := apply(&u); err != nil {
			return err
		}
		u.Token = ""
		return crerr.Wrapf(repos.Users.Update(ctx, u), "update user id=%d", u.ID)
	})
}

// rotateToken stores a fresh token for the account at email when eligible holds.
// An empty token means nothing was rotated.
func (s *AccountService) rotateToken(ctx context.Context, email string, eligible func(user.User) bool) (user.User, string, error) {
	email, err := user.NormalizeEmail(email)
	if err != nil {
		return user.User{}, "", invalidInput(err)
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		return user.User{}, "", crerr.Wrap(err, "generate token")
	}

	var target user.User
	err = s.uow.Do(ctx, func(ctx context.Context, repos storage.Repositories) error {
		u, ok, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return crerr.Wrap(err, "get user by email")
		}
		if !ok || !eligible(u) {
			return nil
		}
		u.Token = token
		if err := repos.Users.Update(ctx, u); err != nil {
			return crerr.Wrapf(err, "update user id=%d", u.ID)
		}
		target = u
		return nil
	})
	if err != nil {
		return user.User{}, "", err
	}
	if target.ID == 0 {
		return user.User{}, "", nil
	}
	return target, token, nil
}

func dependencyUnavailable(err error, msg string) error {
	return crerr.Mark(crerr.Wrap(err, msg), ErrDependencyUnavailable)
}
