package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/subgate-cli/subgate/log"
)

// Server serves /metrics on a dedicated listener.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Entry
}

func NewServer(addr string, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log.For("metrics"),
	}
}

// Serve accepts on l until Shutdown. It never returns http.ErrServerClosed.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Infof("serving metrics on %s", l.Addr())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.WithError(err).Error("metrics server stopped")
		return err
	}
	return nil
}

// Start listens on the configured address and blocks.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
