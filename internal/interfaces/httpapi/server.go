package httpapi

import (
	"net/http"

	"github.com/riskibarqy/bolao/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	resolver SessionResolver,
	logger *logging.Logger,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
	requestBodyMaxBytes int,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, swaggerEnabled)
	registerAuthRoutes(mux, handler, resolver)
	registerPoolRoutes(mux, handler, resolver)
	registerAdminRoutes(mux, handler, resolver)

	return RequestTracing(CaptureRequestBody(requestBodyMaxBytes,
		RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
