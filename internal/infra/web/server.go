package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"meditation-premium-service/internal/usecase"
)

// Server wires the public subscription/user/meditation API and the
// admin-guarded issuance endpoint onto one router.
type Server struct {
	subUC  usecase.SubscriptionUseCase
	userUC usecase.UserUseCase
	medUC  usecase.MeditationUseCase
	auth   *AuthManager
	apiKey string
	log    *zerolog.Logger
}

func NewServer(
	subUC usecase.SubscriptionUseCase,
	userUC usecase.UserUseCase,
	medUC usecase.MeditationUseCase,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		subUC:  subUC,
		userUC: userUC,
		medUC:  medUC,
		auth:   auth,
		apiKey: apiKey,
		log:    logger,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/subscription", func(r chi.Router) {
		r.Get("/check", s.handleCheck)
		r.Post("/activate", s.handleActivate)
		r.Get("/history", s.handleHistory)
		// Issuance mints bearer entitlement; admin only.
		r.With(s.requireAdmin).Post("/generate_code", s.handleGenerateCode)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", s.handleUsersList)
		r.Post("/", s.handleUserCreate)
		r.Get("/{userID}", s.handleUserGet)
		r.Put("/{userID}", s.handleUserUpdate)
		r.Delete("/{userID}", s.handleUserDelete)
		r.Get("/{userID}/last_played", s.handleLastPlayedGet)
		r.Post("/{userID}/last_played/{meditationID}", s.handleLastPlayedSet)
		r.Get("/{userID}/subscriptions", s.handleHistoryByPath)
	})

	r.Route("/api/meditations", func(r chi.Router) {
		r.Get("/", s.handleMeditationsList)
		r.Get("/{meditationID}", s.handleMeditationGet)
		r.With(s.requireAdmin).Post("/seed", s.handleMeditationsSeed)
	})

	r.Post("/api/admin/login", s.handleAdminLogin)

	return r
}
