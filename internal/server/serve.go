package server

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// EndpointPath is the path the streamable HTTP transport is served on.
	EndpointPath = "/mcp"

	// DefaultAddr is the address HTTP transports listen on when none is supplied.
	DefaultAddr = "localhost:8080"

	// DefaultShutdownTimeout is how long HTTP transports wait for in-flight requests when stopping.
	DefaultShutdownTimeout = 5 * time.Second
)

// ServeOptions configure how the server is exposed.
type ServeOptions struct {
	Transport       Transport
	Addr            string
	ShutdownTimeout time.Duration

	// Stdin and Stdout are used by the stdio transport.
	Stdin  io.Reader
	Stdout io.Writer
}

// Serve exposes the server over the configured transport and blocks until ctx is canceled or serving fails.
func (s *Server) Serve(ctx context.Context, opts ServeOptions) error {
	switch opts.Transport {
	case TransportStdio, "":
		return s.serveStdio(ctx, opts.Stdin, opts.Stdout)
	case TransportSSE, TransportStreamableHTTP:
		handler, err := s.HTTPHandler(opts.Transport)
		if err != nil {
			return err
		}
		return s.serveHTTP(ctx, handler, opts)
	default:
		return fmt.Errorf("unsupported transport: %s", opts.Transport)
	}
}

// HTTPHandler returns the handler for an HTTP based transport.
// The streamable HTTP handler is served at EndpointPath, the SSE handler at /sse and /message.
func (s *Server) HTTPHandler(t Transport) (http.Handler, error) {
	switch t {
	case TransportStreamableHTTP:
		return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath(EndpointPath)), nil
	case TransportSSE:
		return server.NewSSEServer(s.mcp), nil
	default:
		return nil, fmt.Errorf("transport %s is not served over HTTP", t)
	}
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	if in == nil || out == nil {
		return fmt.Errorf("stdio transport requires both input and output")
	}

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(s.logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}))

	s.logger.Info("Serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !stdErrors.Is(err, context.Canceled) && !stdErrors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context, handler http.Handler, opts ServeOptions) error {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Serving MCP over HTTP", "transport", opts.Transport, "address", addr)
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("Shutting down MCP server...")
		_ = srv.Shutdown(shutdownCtx)
		s.logger.Info("Shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}
