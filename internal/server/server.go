// Package server exposes the assistant relay, the interview and notification
// functions and the tracker API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/comigor/prepbuddy/internal/account"
	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/notify"
	"github.com/comigor/prepbuddy/internal/quiz"
	"github.com/comigor/prepbuddy/internal/relay"
	"github.com/comigor/prepbuddy/internal/tracker"
)

// Deps are the services behind the routes.
type Deps struct {
	Relay      *relay.Relay
	Notifier   notify.Notifier
	Tracker    *tracker.Service
	Accounts   *account.Service
	Quizzes    *quiz.Repo
	Interviews *interview.Repo
}

type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
}

func New(cfg config.ServerConfig, d Deps) *Server {
	return &Server{cfg: cfg, handler: NewHandler(d)}
}

// NewHandler builds the routed handler with CORS and request logging.
func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /functions/v1/ai-assistant", relay.NewHandler(d.Relay))
	mux.Handle("POST /functions/v1/ai-interview/{action}", interview.NewHandler())
	mux.Handle("POST /functions/v1/notifications", notify.NewHandler(d.Notifier))

	a := &api{d: d}
	mux.HandleFunc("GET /api/users/{user}/snapshot", a.snapshot)
	mux.HandleFunc("POST /api/users/{user}/tasks", a.addTask)
	mux.HandleFunc("PATCH /api/users/{user}/tasks/{id}", a.updateTask)
	mux.HandleFunc("DELETE /api/users/{user}/tasks/{id}", a.deleteTask)
	mux.HandleFunc("POST /api/users/{user}/tasks/{id}/toggle", a.toggleTask)
	mux.HandleFunc("POST /api/users/{user}/categories", a.addCategory)
	mux.HandleFunc("PATCH /api/users/{user}/categories/{id}", a.updateCategory)
	mux.HandleFunc("DELETE /api/users/{user}/categories/{id}", a.deleteCategory)
	mux.HandleFunc("POST /api/users/{user}/advance", a.advance)
	mux.HandleFunc("POST /api/users/{user}/back", a.back)
	mux.HandleFunc("PUT /api/users/{user}/day", a.setDay)
	mux.HandleFunc("POST /api/users/{user}/reset", a.reset)
	mux.HandleFunc("GET /api/users/{user}/calendar", a.calendar)
	mux.HandleFunc("GET /api/users/{user}/profile", a.profile)
	mux.HandleFunc("PUT /api/users/{user}/profile", a.updateProfile)
	mux.HandleFunc("GET /api/users/{user}/settings", a.settings)
	mux.HandleFunc("PUT /api/users/{user}/settings", a.updateSettings)
	mux.HandleFunc("GET /api/users/{user}/quiz/stats", a.quizStats)
	mux.HandleFunc("POST /api/users/{user}/quiz/results", a.saveQuizResult)
	mux.HandleFunc("GET /api/users/{user}/interviews", a.pastInterviews)
	mux.HandleFunc("POST /api/users/{user}/interviews", a.saveInterview)

	return logRequests(cors(mux))
}

func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.L.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
