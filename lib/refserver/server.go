package refserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/samber/oops"
	"golang.org/x/time/rate"

	"github.com/driftguard/driftguard/lib/config"
	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Server is the reference-node role: it exposes the local clock over HTTP
// so watchdog nodes can compare against it. It integrates rate limiting and
// graceful shutdown.
type Server struct {
	config     *config.ReferenceConfig
	now        func() time.Time
	limiter    *rate.Limiter
	httpServer *http.Server
	wg         sync.WaitGroup
}

// NewServer creates a reference-time server for the given configuration.
// The now function supplies the served clock; pass nil for time.Now.
func NewServer(cfg *config.ReferenceConfig, now func() time.Time) (*Server, error) {
	if cfg == nil {
		return nil, oops.Errorf("refserver: config cannot be nil")
	}
	if now == nil {
		now = time.Now
	}

	server := &Server{
		config: cfg,
		now:    now,
		// Generous for honest watchdogs polling every few seconds, tight
		// enough to shrug off a misconfigured client in a hot loop.
		limiter: rate.NewLimiter(rate.Limit(50), 100),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/time", server.handleTime)
	mux.HandleFunc("/healthz", server.handleHealth)

	server.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// Start begins listening on the configured address. It returns immediately
// after launching the server goroutine.
func (s *Server) Start() error {
	if !s.config.Enabled {
		log.Info("Reference time server is disabled")
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.WithFields(logger.Fields{
			"at":      "(Server).Start",
			"address": s.config.Address,
		}).Info("Starting reference time server")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(logger.Fields{
				"at":     "(Server).Start",
				"reason": err.Error(),
			}).Error("Reference time server error")
		}
	}()

	return nil
}

// Stop gracefully shuts down the server, waiting for active requests to
// complete.
func (s *Server) Stop() {
	log.WithField("at", "(Server).Stop").Info("Stopping reference time server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.WithFields(logger.Fields{
			"at":     "(Server).Stop",
			"reason": err.Error(),
		}).Error("Error during server shutdown")
	}

	s.wg.Wait()
}
