// Package server liga o handler a um listener TCP e cuida do encerramento.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	srv             *http.Server
	ln              net.Listener
	shutdownTimeout time.Duration
	log             *zap.Logger
}

type Option func(*Server)

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// Listen abre o socket na hora, então porta ocupada ou endereço inválido
// aparecem aqui e não depois, dentro de Serve.
func Listen(addr string, h http.Handler, opts ...Option) (*Server, error) {
	s := &Server{
		shutdownTimeout: 10 * time.Second,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.ln = ln
	s.srv = &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),
	}
	return s, nil
}

// Addr é o endereço efetivo (útil com porta 0).
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve atende até ctx ser cancelado e então faz shutdown gracioso limitado
// por shutdownTimeout. Encerramento limpo devolve nil.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down", zap.Duration("timeout", s.shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		_ = s.srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Close derruba o listener sem esperar as requisições em curso.
func (s *Server) Close() error { return s.srv.Close() }
