package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bolao/internal/platform/cache"
	idgen "github.com/riskibarqy/bolao/internal/platform/id"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/platform/password"
	"github.com/riskibarqy/bolao/internal/usecase"
)

type discardSender struct{}

func (discardSender) Send(context.Context, notification.Message) error { return nil }

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type testServer struct {
	t      *testing.T
	store  *memory.Store
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()
	logger := logging.NewNop()
	tokens := idgen.NewRandomGenerator()

	sessions := usecase.NewSessionService(cache.NewStore(time.Minute), tokens, repos.Users, time.Hour)
	handler := NewHandler(Services{
		Accounts: usecase.NewAccountService(
			store,
			repos.Users,
			password.NewBcryptHasher(4),
			tokens,
			discardSender{},
			notification.Links{BaseURL: "https://bolao.test"},
			sessions,
			logger,
		),
		AccountAdmin: usecase.NewAccountAdminService(store, repos.Users, sessions, logger),
		Sessions:     sessions,
		Matches:      usecase.NewMatchService(store, repos.Matches, time.UTC, logger),
		Predictions:  usecase.NewPredictionService(store, repos.Predictions, logger),
		Scoring:      usecase.NewScoringService(store, logger),
		Leaderboard:  usecase.NewLeaderboardService(repos.Users),
		Board:        usecase.NewBoardService(repos.Matches, repos.Predictions),
	}, false, logger)

	return &testServer{
		t:      t,
		store:  store,
		router: NewRouter(handler, sessions, logger, true, []string{"*"}, 0),
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var payload []byte
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// signUp registers, confirms and logs in, returning the session token.
func (s *testServer) signUp(name, email string) (string, userDTO) {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/v1/auth/register", "", registerRequest{Name: name, Email: email, Password: "secret-1"})
	expectStatus(s.t, rec, http.StatusCreated)

	u, ok, err := s.store.Users().GetByEmail(context.Background(), email)
	if err != nil || !ok {
		s.t.Fatalf("load registered user: ok=%v err=%v", ok, err)
	}
	rec = s.do(http.MethodGet, "/v1/auth/confirm?token="+u.Token, "", nil)
	expectStatus(s.t, rec, http.StatusOK)

	rec = s.do(http.MethodPost, "/v1/auth/login", "", loginRequest{Email: email, Password: "secret-1"})
	expectStatus(s.t, rec, http.StatusOK)
	login := decodeEnvelope[loginDTO](s.t, rec)
	if login.Data.Token == "" {
		s.t.Fatalf("expected session token in login response")
	}
	return login.Data.Token, login.Data.User
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestPoolFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	ownerToken, owner := s.signUp("Owner", "owner@example.com")
	if !owner.IsOwner || !owner.IsAdmin {
		t.Fatalf("expected first account to be owner and admin, got %+v", owner)
	}
	playerToken, player := s.signUp("Player", "player@example.com")
	if player.IsAdmin {
		t.Fatalf("expected second account to be a regular user")
	}

	kickoff := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec := s.do(http.MethodPost, "/v1/admin/matches", ownerToken, matchRequest{
		ParticipantA: "Brazil",
		ParticipantB: "Argentina",
		KickoffAt:    kickoff,
	})
	expectStatus(t, rec, http.StatusCreated)
	created := decodeEnvelope[matchDTO](t, rec).Data

	rec = s.do(http.MethodPut, "/v1/matches/"+itoa(created.ID)+"/prediction", playerToken, predictionRequest{Choice: "Brazil"})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeEnvelope[predictionDTO](t, rec).Data.Choice; got != "home" {
		t.Fatalf("expected participant label to map to home, got %q", got)
	}

	rec = s.do(http.MethodGet, "/v1/matches", playerToken, nil)
	expectStatus(t, rec, http.StatusOK)
	board := decodeEnvelope[[]boardMatchDTO](t, rec).Data
	if len(board) != 1 || board[0].MyChoice != "home" || !board[0].Open {
		t.Fatalf("unexpected board for player: %+v", board)
	}

	rec = s.do(http.MethodGet, "/v1/matches", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if anon := decodeEnvelope[[]boardMatchDTO](t, rec).Data; len(anon) != 1 || anon[0].MyChoice != "" {
		t.Fatalf("anonymous board must not carry picks: %+v", anon)
	}

	rec = s.do(http.MethodPut, "/v1/admin/matches/"+itoa(created.ID)+"/outcome", ownerToken, outcomeRequest{Outcome: "home"})
	expectStatus(t, rec, http.StatusOK)
	if decided := decodeEnvelope[matchDTO](t, rec).Data; decided.OutcomeLabel != "Brazil" || !decided.Decided {
		t.Fatalf("unexpected decided match: %+v", decided)
	}

	rec = s.do(http.MethodGet, "/v1/ranking", "", nil)
	expectStatus(t, rec, http.StatusOK)
	ranking := decodeEnvelope[[]rankingEntryDTO](t, rec).Data
	if len(ranking) != 2 || ranking[0].UserID != player.ID || ranking[0].Points != 1 || ranking[0].Position != 1 {
		t.Fatalf("unexpected ranking: %+v", ranking)
	}

	rec = s.do(http.MethodPut, "/v1/matches/"+itoa(created.ID)+"/prediction", playerToken, predictionRequest{Choice: "away"})
	expectStatus(t, rec, http.StatusConflict)
	if body := decodeEnvelope[any](t, rec); body.Error == nil || body.Error.Errors[0].Reason != "matchClosed" {
		t.Fatalf("expected matchClosed reason, got %+v", body.Error)
	}
}

func TestAdminRoutesRequireRights(t *testing.T) {
	s := newTestServer(t)
	s.signUp("Owner", "owner@example.com")
	playerToken, player := s.signUp("Player", "player@example.com")

	rec := s.do(http.MethodPost, "/v1/admin/matches", playerToken, matchRequest{
		ParticipantA: "Spain",
		ParticipantB: "Portugal",
		KickoffAt:    time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodPost, "/v1/admin/recompute", playerToken, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodDelete, "/v1/admin/users/"+itoa(player.ID), playerToken, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodGet, "/v1/admin/users", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestOwnerManagesAccounts(t *testing.T) {
	s := newTestServer(t)
	ownerToken, _ := s.signUp("Owner", "owner@example.com")
	playerToken, player := s.signUp("Player", "player@example.com")

	rec := s.do(http.MethodPost, "/v1/admin/users/"+itoa(player.ID)+"/toggle-admin", ownerToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if !decodeEnvelope[userDTO](t, rec).Data.IsAdmin {
		t.Fatalf("expected player to be promoted")
	}

	rec = s.do(http.MethodGet, "/v1/admin/users", playerToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if users := decodeEnvelope[[]userDTO](t, rec).Data; len(users) != 2 {
		t.Fatalf("expected two users, got %d", len(users))
	}

	rec = s.do(http.MethodDelete, "/v1/admin/users/"+itoa(player.ID), ownerToken, nil)
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(http.MethodGet, "/v1/me", playerToken, nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(http.MethodPost, "/v1/admin/reset", ownerToken, nil)
	expectStatus(t, rec, http.StatusNoContent)
}

func TestEditUserName(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.signUp("Owner", "owner@example.com")
	playerToken, player := s.signUp("Player", "player@example.com")

	rec := s.do(http.MethodPatch, "/v1/users/"+itoa(player.ID), playerToken, editNameRequest{Name: "  Renamed  "})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeEnvelope[userDTO](t, rec).Data.Name; got != "Renamed" {
		t.Fatalf("expected trimmed name, got %q", got)
	}

	rec = s.do(http.MethodPatch, "/v1/users/"+itoa(owner.ID), playerToken, editNameRequest{Name: "Hijack"})
	expectStatus(t, rec, http.StatusForbidden)
}

func TestSessionCookieAndLogout(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp("Owner", "owner@example.com")

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodPost, "/v1/auth/logout", token, nil)
	expectStatus(t, rec, http.StatusNoContent)
	if cookies := rec.Result().Cookies(); len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected logout to expire the session cookie, got %+v", cookies)
	}

	rec = s.do(http.MethodGet, "/v1/me", token, nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	s.signUp("Owner", "owner@example.com")

	rec := s.do(http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "OWNER@example.com", Password: "secret-1"})
	expectStatus(t, rec, http.StatusOK)

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			found = c
		}
	}
	if found == nil || !found.HttpOnly || found.Value == "" {
		t.Fatalf("expected http-only session cookie, got %+v", found)
	}
}

func TestLoginRejections(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/v1/auth/register", "", registerRequest{Name: "Ana", Email: "ana@example.com", Password: "secret-1"})
	expectStatus(t, rec, http.StatusCreated)

	rec = s.do(http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "ana@example.com", Password: "secret-1"})
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "ana@example.com", Password: "wrong-pass"})
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = s.do(http.MethodPost, "/v1/auth/register", "", registerRequest{Name: "Ana", Email: "ana@example.com", Password: "secret-1"})
	expectStatus(t, rec, http.StatusConflict)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.signUp("Owner", "owner@example.com")

	rec := s.do(http.MethodPost, "/v1/auth/password/forgot", "", emailRequest{Email: "owner@example.com"})
	expectStatus(t, rec, http.StatusAccepted)

	u, _, _ := s.store.Users().GetByEmail(context.Background(), "owner@example.com")
	rec = s.do(http.MethodGet, "/v1/auth/password/reset?token="+u.Token, "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodPost, "/v1/auth/password/reset", "", resetPasswordRequest{Token: u.Token, Password: "changed-1"})
	expectStatus(t, rec, http.StatusNoContent)

	rec = s.do(http.MethodGet, "/v1/auth/password/reset?token="+u.Token, "", nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(http.MethodPost, "/v1/auth/login", "", loginRequest{Email: "owner@example.com", Password: "changed-1"})
	expectStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodPost, "/v1/auth/password/forgot", "", emailRequest{Email: "nobody@example.com"})
	expectStatus(t, rec, http.StatusAccepted)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp("Owner", "owner@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "unknown field", method: http.MethodPost, path: "/v1/auth/login", body: map[string]string{"email": "a@b.c", "password": "x", "extra": "y"}, want: http.StatusBadRequest},
		{name: "missing field", method: http.MethodPost, path: "/v1/admin/matches", body: map[string]string{"participant_a": "A"}, want: http.StatusBadRequest},
		{name: "bad path id", method: http.MethodPut, path: "/v1/matches/abc/prediction", body: predictionRequest{Choice: "home"}, want: http.StatusBadRequest},
		{name: "unknown match", method: http.MethodPut, path: "/v1/matches/999/prediction", body: predictionRequest{Choice: "home"}, want: http.StatusNotFound},
		{name: "empty body", method: http.MethodPost, path: "/v1/auth/register", body: nil, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, token, tt.body)
			expectStatus(t, rec, tt.want)
		})
	}
}

func TestRequireAuth_RejectsMalformedHeader(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestOptionalAuth_IgnoresStaleSession(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/v1/matches", "expired-token", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestRecoverPanic(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ranking", nil))
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestSwaggerRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/openapi.yaml", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !bytes.Contains(rec.Body.Bytes(), []byte("/v1/matches/{matchID}/prediction")) {
		t.Fatalf("expected openapi document to describe the prediction route")
	}

	rec = s.do(http.MethodGet, "/docs", "", nil)
	expectStatus(t, rec, http.StatusOK)
}
