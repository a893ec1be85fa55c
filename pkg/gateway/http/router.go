// Package httpgateway serves the exchange REST API on a chi router.
package httpgateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/joripage/exchange-core/pkg/engine"
	"github.com/joripage/exchange-core/pkg/logging"
)

// NewRouter creates a chi router with all routes registered, request
// logging, request ids, and permissive CORS for browser clients.
func NewRouter(e *engine.Engine) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Account"},
		MaxAge:         300,
	}))
	r.Use(requestLogging)

	h := NewHandler(e)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/{symbol}/bid/{price}", h.SubmitBid)
	r.Post("/{symbol}/ask/{price}", h.SubmitAsk)
	r.Get("/{symbol}/depth", h.GetDepth)
	r.Get("/{symbol}/trades", h.GetTrades)
	r.Delete("/orders/{order_id}", h.CancelOrder)

	return r
}

// requestLogging logs each request's method, path, status, and
// duration, tagging it with a fresh request id.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := logging.NewRequestID()
		ctx := logging.WithRequestID(r.Context(), reqID)

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r.WithContext(ctx))

		zap.S().Infow("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", time.Since(start),
		)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
// Repeat calls are swallowed so the underlying writer never logs a
// superfluous WriteHeader.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}
