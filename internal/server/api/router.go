package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// NewRouter wires every route, bearer auth, request logging, and CORS
// around the handler. An empty token leaves the API open.
func NewRouter(h *Handler, token string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/generate-plan", h.GeneratePlan).Methods(http.MethodPost)
	r.HandleFunc("/generate-quiz", h.GenerateQuiz).Methods(http.MethodPost)
	r.HandleFunc("/analyze-syllabus", h.AnalyzeSyllabus).Methods(http.MethodPost)

	r.HandleFunc("/log-session", h.LogSession).Methods(http.MethodPost)
	r.HandleFunc("/user-stats", h.UserStats).Methods(http.MethodGet)
	r.HandleFunc("/reset-history", h.ResetHistory).Methods(http.MethodDelete)

	r.HandleFunc("/calendar/add", h.AddTask).Methods(http.MethodPost)
	r.HandleFunc("/calendar/get", h.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/calendar/update/{id}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/calendar/delete/{id}", h.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/calendar/reset", h.ResetCalendar).Methods(http.MethodDelete)

	var handler http.Handler = r
	handler = requireBearer(token, handler)
	handler = requestLogger(h.log, handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	})
	return c.Handler(handler)
}

// requireBearer guards every route except /health when a token is
// configured.
func requireBearer(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		presented := bearerToken(r)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			errorResponse(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if rid := r.Header.Get("X-Request-ID"); rid != "" {
			fields = append(fields, "request_id", rid)
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			log.Errorw("http request", fields...)
		case rec.status >= http.StatusBadRequest:
			log.Warnw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	})
}
