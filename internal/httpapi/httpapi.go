package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hotelledger/backend/internal/service"
)

const maxBodyBytes = 1 << 20

type API struct {
	service       *service.Service
	allowedOrigin string
	log           *zap.Logger
}

func New(svc *service.Service, allowedOrigin string, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
		log:           log.Named("http"),
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(a.requestLogger)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{a.allowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Cache-Control"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		a.writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		a.writeMethodNotAllowed(w)
	})

	r.Get("/healthz", a.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports/pnl", a.handleProfitAndLoss)
		r.Post("/reports/pnl/batch", a.handleProfitAndLossBatch)
		r.Get("/reports/pnl/period", a.handlePeriodOverPeriod)
		r.Get("/reports/forecast", a.handleForecast)
		r.Get("/reports/seasonality", a.handleSeasonality)
		r.Get("/recipes/analysis", a.handleRecipeAnalysis)
	})
	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")

		if r.Method == http.MethodPost {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func (a *API) writeMethodNotAllowed(w http.ResponseWriter) {
	a.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// writeError hides 5xx details from clients and logs them instead.
func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= 500 {
		a.log.Error("internal error", zap.Int("status", status), zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

// writeServiceError maps service errors to a status code.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidRequest) {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	a.writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
