// Package server exposes the tone codec over HTTP: encoding keypad text to
// WAV, decoding uploaded recordings and serving per-key chart data.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/config"
	"github.com/olivier-w/dualtone/internal/discovery"
)

const shutdownTimeout = 5 * time.Second

// Server holds the HTTP handlers and their shared state.
type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	id      string
	encoder *codec.Encoder
	decoder *codec.Decoder

	slots    *semaphore.Weighted
	inflight *registry
	upgrader websocket.Upgrader
	handler  http.Handler
}

// New builds a server from cfg. A nil logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	enc, err := codec.NewEncoder(cfg.Codec.Options())
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	dec, err := codec.NewDecoder(cfg.Decode.Options())
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		log:      logger,
		id:       uuid.NewString(),
		encoder:  enc,
		decoder:  dec,
		slots:    semaphore.NewWeighted(int64(cfg.Server.MaxConcurrentDecodes)),
		inflight: newRegistry(),
		upgrader: websocket.Upgrader{
			// Tone frames carry no credentials, any origin may read them.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler with request ids, logging and compression
// applied.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /encode", s.handleEncode)
	api.HandleFunc("POST /decode", s.handleDecode)
	api.HandleFunc("GET /decode/inflight", s.handleInflight)
	api.HandleFunc("GET /tone/{symbol}", s.handleTone)
	api.HandleFunc("GET /healthz", s.handleHealth)

	root := http.NewServeMux()
	// The websocket route must see the raw connection, so it skips gzip.
	root.HandleFunc("GET /ws", s.handleWebSocket)
	root.Handle("/", gzhttp.GzipHandler(api))

	return s.withRequestLog(root)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.log),
	}

	port := 0
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	if s.cfg.Server.MDNS.Enabled {
		adv, err := discovery.Advertise(discovery.Config{
			ServiceName: s.cfg.Server.MDNS.ServiceName,
			Port:        port,
		})
		if err != nil {
			s.log.Warn("mdns advertisement failed", zap.Error(err))
		} else {
			s.log.Info("advertising over mdns", zap.String("service", adv.Service()))
			defer adv.Shutdown()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("server_id", s.id))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
