// Package server assembles the HTTP process: the OAuth proxy endpoints,
// the MCP streamable transport, and the background reaper, all on one
// listener with one lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"linkmcp/internal/config"
	"linkmcp/internal/linkedin"
	"linkmcp/internal/oauth"
	"linkmcp/internal/tools"
	"linkmcp/pkg/logging"
)

const (
	serverName    = "linkmcp"
	reaperSweep   = 60 * time.Second
	shutdownGrace = 10 * time.Second
)

// Server owns every component of the running process.
type Server struct {
	cfg    config.Config
	router chi.Router
	reaper *oauth.Reaper

	httpServer *http.Server
}

// New wires all components from the configuration. version is reported as
// the MCP server version.
func New(cfg config.Config, version string) *Server {
	signer := oauth.NewSigner(cfg.SigningSecret)
	transactions := oauth.NewTransactionStore(oauth.TransactionTTL)
	codes := oauth.NewAuthCodeStore(oauth.AuthCodeTTL)
	sessions := oauth.NewSessionStore(oauth.SessionTTL)

	exchanger := oauth.NewLinkedInExchanger(
		cfg.LinkedIn.ClientID,
		cfg.LinkedIn.ClientSecret,
		cfg.LinkedIn.AuthorizationURL,
		cfg.LinkedIn.TokenURL,
		oauth.SupportedScopes,
	)

	proxy := oauth.NewProxy(oauth.ProxyConfig{
		BaseURL:                  cfg.BaseURL,
		UpstreamAuthorizationURL: cfg.LinkedIn.AuthorizationURL,
		UpstreamClientID:         cfg.LinkedIn.ClientID,
		Clients:                  oauth.NewClientStore(),
		Transactions:             transactions,
		Codes:                    codes,
		Sessions:                 sessions,
		Signer:                   signer,
		Exchanger:                exchanger,
	})

	authenticator := oauth.NewAuthenticator(signer, sessions)

	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
	)
	tools.Register(mcpServer, tools.NewHandler(linkedin.NewClient(cfg.LinkedIn.APIBaseURL)))

	streamable := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithHTTPContextFunc(authenticator.Authenticate),
	)

	router := chi.NewRouter()
	proxy.Routes(router)
	router.Handle("/mcp", streamable)
	router.Handle("/mcp/*", streamable)

	reaper := oauth.NewReaper(reaperSweep, map[string]oauth.Sweepable{
		"transactions": transactions,
		"codes":        codes,
		"sessions":     sessions,
	})

	return &Server{
		cfg:    cfg,
		router: router,
		reaper: reaper,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the assembled router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP and sweeps the stores until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server", "Listening on %s (public URL %s)", s.httpServer.Addr, s.cfg.BaseURL)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		s.reaper.Run(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logging.Info("Server", "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
