package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/domain/user"
	"github.com/riskibarqy/bolao/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bolao/internal/platform/cache"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/platform/password"
)

const testPassword = "secret-1"

type sequenceTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *sequenceTokens) NewToken() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) last() notification.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

type fixture struct {
	store       *memory.Store
	mailer      *recordingSender
	now         time.Time
	sessions    *SessionService
	accounts    *AccountService
	admin       *AccountAdminService
	matches     *MatchService
	predictions *PredictionService
	scoring     *ScoringService
	ranking     *LeaderboardService
	board       *BoardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:  memory.NewStore(),
		mailer: &recordingSender{},
		now:    time.Date(2026, time.June, 11, 12, 0, 0, 0, time.UTC),
	}
	repos := f.store.Repositories()
	logger := logging.NewNop()

	f.sessions = NewSessionService(cache.NewStore(time.Minute), &sequenceTokens{prefix: "session"}, repos.Users, time.Hour)
	f.accounts = NewAccountService(
		f.store,
		repos.Users,
		password.NewBcryptHasher(4),
		&sequenceTokens{prefix: "mail"},
		f.mailer,
		notification.Links{BaseURL: "https://bolao.test"},
		f.sessions,
		logger,
	)
	f.admin = NewAccountAdminService(f.store, repos.Users, f.sessions, logger)
	f.matches = NewMatchService(f.store, repos.Matches, time.UTC, logger)
	f.predictions = NewPredictionService(f.store, repos.Predictions, logger)
	f.predictions.now = func() time.Time { return f.now }
	f.scoring = NewScoringService(f.store, logger)
	f.ranking = NewLeaderboardService(repos.Users)
	f.board = NewBoardService(repos.Matches, repos.Predictions)
	f.board.now = func() time.Time { return f.now }
	return f
}

// register creates and confirms an account.
func (f *fixture) register(t *testing.T, name, email string) user.User {
	t.Helper()
	ctx := context.Background()

	created, err := f.accounts.Register(ctx, RegisterInput{Name: name, Email: email, Password: testPassword})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	confirmed, err := f.accounts.ConfirmEmail(ctx, created.Token)
	if err != nil {
		t.Fatalf("confirm %s: %v", email, err)
	}
	return confirmed
}

func (f *fixture) user(t *testing.T, id int64) user.User {
	t.Helper()
	u, ok, err := f.store.Users().GetByID(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("get user %d: ok=%v err=%v", id, ok, err)
	}
	return u
}

func (f *fixture) principal(t *testing.T, id int64) user.Principal {
	t.Helper()
	return f.user(t, id).Principal()
}

func (f *fixture) points(t *testing.T, id int64) int {
	t.Helper()
	return f.user(t, id).Points
}

func (f *fixture) createMatch(t *testing.T, actor user.Principal, a, b string, kickoff time.Time) match.Match {
	t.Helper()
	m, err := f.matches.Create(context.Background(), actor, MatchInput{
		ParticipantA: a,
		ParticipantB: b,
		KickoffAt:    kickoff.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create match %s vs %s: %v", a, b, err)
	}
	return m
}

func (f *fixture) predict(t *testing.T, userID, matchID int64, choice string) {
	t.Helper()
	_, err := f.predictions.Submit(context.Background(), SubmitPredictionInput{UserID: userID, MatchID: matchID, Choice: choice})
	if err != nil {
		t.Fatalf("submit prediction user=%d match=%d: %v", userID, matchID, err)
	}
}
