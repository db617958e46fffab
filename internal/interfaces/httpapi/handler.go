package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/bolao/internal/domain/user"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/usecase"
)

// Services groups the use cases served over HTTP.
type Services struct {
	Accounts     *usecase.AccountService
	AccountAdmin *usecase.AccountAdminService
	Sessions     *usecase.SessionService
	Matches      *usecase.MatchService
	Predictions  *usecase.PredictionService
	Scoring      *usecase.ScoringService
	Leaderboard  *usecase.LeaderboardService
	Board        *usecase.BoardService
}

type Handler struct {
	accounts     *usecase.AccountService
	accountAdmin *usecase.AccountAdminService
	sessions     *usecase.SessionService
	matches      *usecase.MatchService
	predictions  *usecase.PredictionService
	scoring      *usecase.ScoringService
	leaderboard  *usecase.LeaderboardService
	board        *usecase.BoardService
	cookieSecure bool
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(services Services, cookieSecure bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		accounts:     services.Accounts,
		accountAdmin: services.AccountAdmin,
		sessions:     services.Sessions,
		matches:      services.Matches,
		predictions:  services.Predictions,
		scoring:      services.Scoring,
		leaderboard:  services.Leaderboard,
		board:        services.Board,
		cookieSecure: cookieSecure,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body into payload and validates its tags.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return crerr.Wrap(usecase.ErrInvalidInput, "request body is required")
		}
		return crerr.Wrapf(usecase.ErrInvalidInput, "invalid JSON payload: %v", err)
	}

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return crerr.Wrapf(usecase.ErrInvalidInput, "validation failed: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, crerr.Wrapf(usecase.ErrInvalidInput, "invalid %s %q", name, raw)
	}
	return id, nil
}

// requirePrincipal returns the principal RequireAuth stored in ctx.
func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || !principal.Authenticated() {
		return user.Principal{}, crerr.Wrap(usecase.ErrUnauthorized, "missing auth principal")
	}
	return principal, nil
}
