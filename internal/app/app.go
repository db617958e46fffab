package app

import (
	"context"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/bolao/internal/config"
	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/domain/storage"
	"github.com/riskibarqy/bolao/internal/infrastructure/mail"
	cacherepo "github.com/riskibarqy/bolao/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/bolao/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/bolao/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/bolao/internal/interfaces/httpapi"
	"github.com/riskibarqy/bolao/internal/platform/cache"
	idgen "github.com/riskibarqy/bolao/internal/platform/id"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/platform/password"
	"github.com/riskibarqy/bolao/internal/platform/resilience"
	"github.com/riskibarqy/bolao/internal/usecase"
)

const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 5
	dbConnMaxIdleTime = 5 * time.Minute
)

type backend struct {
	uow   storage.UnitOfWork
	repos storage.Repositories
	close func() error
}

// NewHTTPServer wires storage, mail, sessions and the HTTP surface. The returned
// close func releases the storage backend and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, crerr.New("http server addr cannot be empty")
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	uow, repos := store.uow, store.repos
	if cfg.CacheEnabled {
		readCache := cache.NewStore(cfg.CacheTTL)
		uow = cacherepo.NewUnitOfWork(uow, readCache)
		repos = cacherepo.Wrap(repos, readCache)
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL.String())
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		_ = store.close()
		return nil, nil, err
	}

	tokens := idgen.NewRandomGenerator()
	sessions := usecase.NewSessionService(cache.NewStore(cfg.SessionTTL), tokens, repos.Users, cfg.SessionTTL)
	services := httpapi.Services{
		Accounts: usecase.NewAccountService(
			uow,
			repos.Users,
			password.NewBcryptHasher(bcrypt.DefaultCost),
			tokens,
			mailer,
			notification.Links{BaseURL: cfg.PublicBaseURL},
			sessions,
			logger,
		),
		AccountAdmin: usecase.NewAccountAdminService(uow, repos.Users, sessions, logger),
		Sessions:     sessions,
		Matches:      usecase.NewMatchService(uow, repos.Matches, cfg.Location, logger),
		Predictions:  usecase.NewPredictionService(uow, repos.Predictions, logger),
		Scoring:      usecase.NewScoringService(uow, logger),
		Leaderboard:  usecase.NewLeaderboardService(repos.Users),
		Board:        usecase.NewBoardService(repos.Matches, repos.Predictions),
	}

	bodyMaxBytes := 0
	if cfg.UptraceEnabled && cfg.UptraceCaptureRequestBody {
		bodyMaxBytes = cfg.UptraceRequestBodyMaxBytes
	}

	handler := httpapi.NewHandler(services, cfg.SessionCookieSecure, logger)
	router := httpapi.NewRouter(handler, sessions, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, bodyMaxBytes)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, store.close, nil
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (backend, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		mem := memory.NewStore()
		if cfg.AppEnv == config.EnvDev {
			if err := mem.Seed(ctx, memory.SeedMatches(time.Now())); err != nil {
				return backend{}, crerr.Wrap(err, "seed memory store")
			}
		}
		logger.Info("storage ready", "driver", config.StorageDriverMemory)
		return backend{uow: mem, repos: mem.Repositories(), close: func() error { return nil }}, nil
	case config.StorageDriverPostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return backend{}, err
		}
		logger.Info("storage ready", "driver", config.StorageDriverPostgres, "db_name", dbNameFromURL(cfg.DBURL))
		return backend{
			uow:   postgres.NewUnitOfWork(db),
			repos: postgres.NewRepositories(db),
			close: db.Close,
		}, nil
	default:
		return backend{}, crerr.Newf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := config.NormalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(spanQuery),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}

	return db, nil
}

func newMailer(cfg config.Config, logger *logging.Logger) (notification.Sender, error) {
	if cfg.MailDriver != config.MailDriverSMTP {
		logger.Info("mail delivery logged only", "driver", cfg.MailDriver)
		return mail.NewLogSender(logger), nil
	}

	breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
		Enabled:          cfg.MailCircuitEnabled,
		FailureThreshold: cfg.MailCircuitFailureCount,
		OpenTimeout:      cfg.MailCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.MailCircuitHalfOpenMaxReq,
	})

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Timeout:  cfg.SMTPTimeout,
	}, breaker, logger)
	if err != nil {
		return nil, crerr.Wrap(err, "build smtp sender")
	}
	return sender, nil
}
