// Package server contains the FRBS registry server, an HTTP REST server that
// compiles, stores, and serves fuzzy rule bases.
//
//	POST   /api/v1/rulebases       - compile and store a rule base (auth required)
//	GET    /api/v1/rulebases       - list stored rule bases
//	GET    /api/v1/rulebases/{id}  - get a rule base; ?format=frb|toml|yaml exports it
//	PUT    /api/v1/rulebases/{id}  - replace a rule base (auth required)
//	DELETE /api/v1/rulebases/{id}  - delete a rule base (auth required)
//	GET    /api/v1/info            - get version info on the server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/frbs/server/api"
	"github.com/dekarrin/frbs/server/dao"
	"github.com/dekarrin/frbs/server/registry"
	"github.com/dekarrin/frbs/server/token"
	"go.uber.org/zap"
)

// Server is an HTTP REST server that provides a registry of compiled rule
// bases. The zero-value of a Server should not be used directly; call New()
// to get one ready for use.
type Server struct {
	cfg    Config
	db     dao.Store
	router http.Handler
	log    *zap.Logger
}

// New creates a new Server from cfg, connecting to its DB. Defaults are
// filled in for unset values of cfg before it is validated. If log is nil,
// nothing is logged.
func New(cfg Config, log *zap.Logger) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("config: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, fmt.Errorf("connect DB: %w", err)
	}

	a := api.API{
		Backend:        registry.Service{DB: db},
		UnauthDelay:    cfg.UnauthDelay(),
		Secret:         cfg.TokenSecret,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            log,
	}

	return Server{
		cfg:    cfg,
		db:     db,
		router: newRouter(a),
		log:    log,
	}, nil
}

// Handler returns the handler that serves every route of the server.
func (s Server) Handler() http.Handler {
	return s.router
}

// IssueToken creates a token that authenticates client with the server.
func (s Server) IssueToken(client string) (string, error) {
	return token.Generate(s.cfg.TokenSecret, client, s.cfg.TokenLifetime)
}

// ServeForever listens on the configured address and serves requests until
// ctx is canceled, at which point the server is shut down gracefully and the
// DB is closed.
func (s Server) ServeForever(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("address", s.cfg.ListenAddress), zap.String("db", s.cfg.DB.Type.String()))
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		serveErr = srv.Shutdown(shutdownCtx)
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	if err := s.db.Close(); err != nil {
		s.log.Error("could not close DB", zap.Error(err))
		if serveErr == nil {
			serveErr = fmt.Errorf("close DB: %w", err)
		}
	}

	return serveErr
}

// Close releases the DB of a Server that is not being served.
func (s Server) Close() error {
	return s.db.Close()
}
