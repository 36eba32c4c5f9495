// Package api serves the package registry as a versioned REST API.
package api

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
)

// MCPPath is where the MCP handler is mounted when one is configured.
const MCPPath = "/mcp"

// Server manages the HTTP API.
// NewServer should be used to create instances of Server.
type Server struct {
	logger hclog.Logger
	deps   Dependencies

	// addr specifies the network address to bind.
	addr string

	cors            CORSConfig
	shutdownTimeout time.Duration
	mcpHandler      http.Handler

	// version is reported in the OpenAPI document.
	version string
}

// NewServer creates a new API server with the provided dependencies and options.
func NewServer(logger hclog.Logger, deps Dependencies, addr string, version string, opt ...Option) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}
	if err := validateAddr(addr); err != nil {
		return nil, err
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &Server{
		logger:          logger.Named("api"),
		deps:            deps,
		addr:            addr,
		cors:            opts.CORS,
		shutdownTimeout: opts.ShutdownTimeout,
		mcpHandler:      opts.MCPHandler,
		version:         version,
	}, nil
}

// Handler builds the router serving the REST API, and the MCP endpoint when configured.
func (a *Server) Handler() (http.Handler, error) {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Recoverer)

	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	config := huma.DefaultConfig("mcp-server-pacman", APIVersion)
	config.Info.Description = "Search package indices and Docker Hub. Server version " + a.version
	// Responses carry no $schema links.
	config.CreateHooks = nil
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	prefix, err := RegisterRoutes(router, a.deps)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Registered API routes", "prefix", prefix)

	if a.mcpHandler != nil {
		mux.Handle(MCPPath, a.mcpHandler)
	}

	return mux, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
func (a *Server) Start(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting API server", "address", a.addr, "prefix", "/api/"+APIVersion, "mcp", a.mcpHandler != nil)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *Server) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	corsOptions := cors.Options{
		AllowedOrigins:   append([]string(nil), a.cors.AllowOrigins...),
		AllowedMethods:   a.cors.AllowMethods,
		AllowedHeaders:   a.cors.AllowedHeaders,
		ExposedHeaders:   a.cors.ExposedHeaders,
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	// A wildcard origin never allows credentials.
	for i, origin := range corsOptions.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			corsOptions.AllowedOrigins = []string{"*"}
			corsOptions.AllowCredentials = false
			break
		}
		corsOptions.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	mux.Use(cors.Handler(corsOptions))
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// NOTE: Keep this function in sync with internal/errors/errors.go.
// Every error defined there should have an explicit case here otherwise it will default to 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, unknown index)
//   - 404: Package, or index health, not found
//   - 502: The upstream index answered with something unusable
//   - 503: The upstream index could not be reached
//   - 500: Unexpected internal errors (default case)
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrUnsupportedIndex):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrPackageNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrHealthNotTracked):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrUpstreamStatus):
		logger.Warn("Upstream index returned an error", "error", err)
		return huma.Error502BadGateway(err.Error())
	case stdErrors.Is(err, errors.ErrUpstreamParse):
		logger.Warn("Upstream index returned an invalid response", "error", err)
		return huma.Error502BadGateway(err.Error())
	case stdErrors.Is(err, errors.ErrUpstreamUnavailable):
		logger.Warn("Upstream index unavailable", "error", err)
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		logger.Error("Unexpected error handling request", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// Errors raised by huma itself, e.g. request validation failures, keep their status.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status != http.StatusInternalServerError {
			return huma.NewError(status, msg, errs...)
		}

		switch len(errs) {
		case 0:
			return huma.NewError(status, msg)
		case 1:
			return mapError(logger, errs[0])
		default:
			return mapError(logger, stdErrors.Join(errs...))
		}
	}
}
