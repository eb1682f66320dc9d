package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-content-gate/internal/infra/logging"
	red "telegram-content-gate/internal/infra/redis"
)

// UpdateHandler is the router boundary; it never reports failure upward.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, up tgbotapi.Update)
}

// Server is the webhook ingestion adapter plus health and metrics endpoints.
type Server struct {
	router UpdateHandler
	dedup  *red.UpdateDedup
	log    *zerolog.Logger
	server *http.Server
}

// NewServer wires the routes. dedup may be nil when Redis is not configured.
func NewServer(port int, router UpdateHandler, dedup *red.UpdateDedup, logger *zerolog.Logger) *Server {
	s := &Server{router: router, dedup: dedup, log: logger}

	mux := chi.NewRouter()
	mux.Post("/webhook/telegram", s.handleWebhook)
	mux.Get("/health", s.handleHealth)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("webhook server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleWebhook accepts one update per invocation and always acks with an
// empty 200: the ack is about transport delivery, not business outcome.
// Failures stay behind the router's own error trap.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	var up tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&up); err != nil {
		s.log.Warn().Err(err).Msg("undecodable webhook payload")
		return
	}

	ctx := logging.WithTraceID(r.Context(), uuid.NewString())
	if from := up.SentFrom(); from != nil {
		ctx = logging.WithTgID(ctx, from.ID)
	}

	if s.dedup.Seen(ctx, up.UpdateID) {
		logging.With(ctx, s.log).Debug().Int("update_id", up.UpdateID).Msg("duplicate update suppressed")
		return
	}
	s.router.HandleUpdate(ctx, up)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
