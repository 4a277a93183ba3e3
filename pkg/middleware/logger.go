package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/reqid"
)

// Logger emits one structured line per request and injects a child logger
// carrying the request id into the context for downstream handlers.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		log := logger.WithCtx(r.Context()).With("request_id", reqid.FromCtx(r.Context()))
		ctx := logger.InjectLogger(r.Context(), log)

		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}
