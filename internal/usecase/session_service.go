package usecase

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/user"
	idgen "github.com/riskibarqy/bolao/internal/platform/id"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps session tokens with a per-entry lifetime.
type SessionStore interface {
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration)
	Get(ctx context.Context, key string) (any, bool)
	Delete(ctx context.Context, key string)
	DeleteWhere(ctx context.Context, prefix string, match func(value any) bool) int
}

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

type SessionService struct {
	store  SessionStore
	tokens idgen.Generator
	users  user.Repository
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(store SessionStore, tokens idgen.Generator, users user.Repository, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionService{
		store:  store,
		tokens: tokens,
		users:  users,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) Create(ctx context.Context, userID int64) (Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Create")
	defer span.End()

	token, err := s.tokens.NewToken()
	if err != nil {
		return Session{}, crerr.Wrap(err, "generate session token")
	}

	s.store.SetWithTTL(ctx, sessionKeyPrefix+token, userID, s.ttl)
	return Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Resolve returns the current state of the user behind token. Sessions of
// deleted users are revoked on sight.
func (s *SessionService) Resolve(ctx context.Context, token string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Resolve")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return user.User{}, crerr.Wrap(ErrUnauthorized, "missing session token")
	}

	value, ok := s.store.Get(ctx, sessionKeyPrefix+token)
	if !ok {
		return user.User{}, crerr.Wrap(ErrUnauthorized, "unknown or expired session")
	}
	userID, _ := value.(int64)

	u, ok, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, crerr.Wrapf(err, "get session user id=%d", userID)
	}
	if !ok {
		s.store.Delete(ctx, sessionKeyPrefix+token)
		return user.User{}, crerr.Wrap(ErrUnauthorized, "session user no longer exists")
	}
	return u, nil
}

func (s *SessionService) Revoke(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	s.store.Delete(ctx, sessionKeyPrefix+token)
}

// RevokeUser ends every session held by userID.
func (s *SessionService) RevokeUser(ctx context.Context, userID int64) int {
	return s.store.DeleteWhere(ctx, sessionKeyPrefix, func(value any) bool {
		id, _ := value.(int64)
		return id == userID
	})
}
