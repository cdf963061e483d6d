package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dicewager/events"
	"dicewager/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Server exposes the challenge service over HTTP and streams ledger events
// to websocket clients
type Server struct {
	router     *mux.Router
	service    service.ChallengeService
	hub        *eventHub
	httpServer *http.Server
}

// NewServer creates a server listening on addr. Events from bus are relayed
// to every connected /api/events client.
func NewServer(addr string, challengeService service.ChallengeService, bus *events.Bus) *Server {
	s := &Server{
		router:  mux.NewRouter().StrictSlash(true),
		service: challengeService,
		hub:     newEventHub(),
	}
	bus.SubscribeAll(s.hub.broadcast)

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(logRequests)

	api.HandleFunc("/ledger", s.handleLedger).Methods(http.MethodGet)
	api.HandleFunc("/challenges", s.handleListChallenges).Methods(http.MethodGet)
	api.HandleFunc("/challenges", s.handleCreateChallenges).Methods(http.MethodPost)
	api.HandleFunc("/challenges/cost", s.handleCreationCost).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}/accept", s.handleAcceptChallenge).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP API listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.httpServer.Shutdown(ctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("Handled HTTP request")
	})
}
