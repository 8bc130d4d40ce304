package rest

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	log       *logrus.Entry
	app       App
	server    *http.Server
	version   string
	publicKey *rsa.PublicKey
}

// NewServer builds the HTTP API. With a nil publicKey /api/v1 is not authenticated.
func NewServer(log *logrus.Logger, app App, address, version string, publicKey *rsa.PublicKey) *Server {
	s := Server{
		log:       log.WithField("component", "rest"),
		app:       app,
		version:   version,
		publicKey: publicKey,
	}
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/version", s.versionHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			if s.publicKey != nil {
				r.Use(s.jwtAuth)
			}
			r.Get("/rules", s.rulesHandler)
			r.Route("/meetings/{id}", func(r chi.Router) {
				r.Get("/", s.getMeetingHandler)
				r.Get("/action-items", s.getActionItemsHandler)
				r.Post("/action-items", s.createActionItemHandler)
				r.Post("/suggestions", s.suggestionsHandler)
				r.Post("/schedule", s.scheduleHandler)
				r.Post("/book", s.bookHandler)
			})
			r.Patch("/action-items/{id}", s.updateActionItemHandler)
		})
	})
	return r
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("err shutting down http server: %v", err)
		}
	}()
	s.log.Infof("starting http server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("err running http server: %w", err)
	}
	return nil
}
