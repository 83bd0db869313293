package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pushreg/config"
	"pushreg/internal/user/handler"
	"pushreg/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

type Server struct {
	httpServer *http.Server
	cfg        config.Server
	logger     logger.Logger
}

func New(cfg config.Server, h *handler.UserHandler, log logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: log,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort("", cfg.Port),
			Handler:      Routes(h, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Routes builds the full handler chain. Unknown methods on a known path
// get 405 from the mux.
func Routes(h *handler.UserHandler, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user-info", h.SaveUserInfo)
	mux.HandleFunc("GET /health", h.Health)

	var root http.Handler = mux
	root = Recovery(log)(root)
	root = AccessLog(log)(root)
	root = RequestID(root)
	return root
}

// Start serves until ctx is cancelled, then drains in-flight requests for
// at most ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
