// Command flying-chess starts the Flying Chess game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket updates and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the data directory, debug logging, event texts,
// and optional ngrok tunneling so other devices can open a share link.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/flying-chess/api"
	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
	"github.com/wricardo/flying-chess/game/session"
	"github.com/wricardo/flying-chess/game/store"
	"github.com/wricardo/flying-chess/transport/mcp"
	"github.com/wricardo/flying-chess/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Flying Chess Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = 1 * time.Hour
	filesystemSyncEvery = 5 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// serverConfig is the resolved command line and environment configuration
type serverConfig struct {
	Host         string
	Port         int
	DataDir      string
	InMemory     bool
	MessagesFile string

	NgrokEnabled bool
	NgrokAuth    string
	NgrokDomain  string
}

// Addr returns the host:port the HTTP server listens on
func (c serverConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

func main() {
	loadEnv()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadEnv loads a .env file if it exists
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Warnf("Error loading .env file: %v", err)
		}
		return
	}
	log.Info("Loaded environment variables from .env file")
}

// newApp builds the command tree. Running without a subcommand starts the server.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "flying-chess",
		Usage:   AppName,
		Version: Version,
		Flags:   globalFlags(),
		Before:  setupLogging,
		Action:  runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server, starting an internal HTTP API if needed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "REST API to proxy when it is reachable",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runStdioMCP,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "HTTP server host",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Value:   "data",
			Usage:   "Directory holding maps, libraries and sessions",
			Sources: cli.EnvVars("DATA_DIR"),
		},
		&cli.BoolFlag{
			Name:  "in-memory",
			Usage: "Keep everything in memory; nothing is written to disk",
		},
		&cli.StringFlag{
			Name:    "messages",
			Usage:   "YAML or JSON file overriding the roll event texts",
			Sources: cli.EnvVars("MESSAGES_FILE"),
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			Sources: cli.EnvVars("DEBUG"),
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "Ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
	return ctx, nil
}

func configFromCommand(cmd *cli.Command) serverConfig {
	return serverConfig{
		Host:         cmd.String("host"),
		Port:         cmd.Int("port"),
		DataDir:      cmd.String("data-dir"),
		InMemory:     cmd.Bool("in-memory"),
		MessagesFile: cmd.String("messages"),
		NgrokEnabled: cmd.Bool("ngrok"),
		NgrokAuth:    cmd.String("ngrok-auth"),
		NgrokDomain:  cmd.String("ngrok-domain"),
	}
}

// loadMessages overlays the texts found in path on the default messages.
// JSON files parse as YAML.
func loadMessages(path string) (engine.Messages, error) {
	msgs := engine.DefaultMessages()
	if path == "" {
		return msgs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return msgs, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := yaml.Unmarshal(data, &msgs); err != nil {
		return msgs, fmt.Errorf("failed to parse messages file: %w", err)
	}
	if err := msgs.Validate(); err != nil {
		return msgs, err
	}
	return msgs, nil
}

// services bundles the wired application layers
type services struct {
	game        service.GameService
	sessions    *session.Manager
	persistence session.SessionPersistence
}

// initializeServices wires the store, catalog, session manager and game service.
// Persisted sessions are loaded before it returns.
func initializeServices(cfg serverConfig) (*services, error) {
	msgs, err := loadMessages(cfg.MessagesFile)
	if err != nil {
		return nil, err
	}
	engineOpts := []engine.Option{engine.WithMessages(msgs)}

	var (
		st          store.Store
		persistence session.SessionPersistence
	)
	if cfg.InMemory {
		st = store.NewMemoryStore()
		persistence = session.NewStorePersistence(st, engineOpts...)
	} else {
		fileStore, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
		st = fileStore

		persistence, err = session.NewFilePersistence(filepath.Join(cfg.DataDir, "sessions"), engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
	}

	catalogManager, err := catalog.NewManager(st)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence, engineOpts...)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Warnf("Failed to load persisted sessions: %v", err)
	}

	return &services{
		game:        service.NewGameService(sessionManager, catalogManager),
		sessions:    sessionManager,
		persistence: persistence,
	}, nil
}

// newRouter mounts the API server at the root and adds the /mcp endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))
	return router
}

// mcpHTTPHandler answers single JSON-RPC MCP messages over HTTP POST
func mcpHTTPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel. Everything stops on SIGINT/SIGTERM
// or when any component fails, and sessions are saved before returning.
func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg := configFromCommand(cmd)
	log.Infof("Starting %s v%s", AppName, Version)

	svcs, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	addr := cfg.Addr()
	router := newRouter(api.NewServer(svcs.game, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	if cfg.NgrokEnabled {
		g.Go(func() error {
			runTunnel(gctx, cfg, router)
			return nil
		})
	}

	g.Go(func() error {
		sessionCleanupRoutine(gctx, svcs.sessions)
		return nil
	})

	if !cfg.InMemory {
		g.Go(func() error {
			filesystemSyncRoutine(gctx, svcs.sessions, svcs.persistence)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warnf("HTTP server shutdown error: %v", err)
		}
		if err := svcs.sessions.SaveAllSessions(); err != nil {
			log.Warnf("Failed to save sessions on shutdown: %v", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("Server stopped")
	return err
}

// runTunnel serves handler through an ngrok tunnel until ctx is done.
// Tunnel failures are logged; the local server keeps running.
func runTunnel(ctx context.Context, cfg serverConfig, handler http.Handler) {
	if cfg.NgrokAuth == "" {
		log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Infof("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		log.Warnf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warnf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Infof("Ngrok tunnel established: %s", ngrokURL)
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  Share QR (ngrok): %s/api/qr?url=%s", ngrokURL, ngrokURL)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Warnf("Ngrok server error: %v", err)
	}
	log.Info("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically drops sessions from memory that have not
// been accessed within sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Infof("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically prunes in-memory sessions whose persisted
// copy was deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(filesystemSyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneOrphanedSessions(manager, persistence)
		}
	}
}

// pruneOrphanedSessions removes sessions from memory when their persisted copy is gone
func pruneOrphanedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.Debugf("Pruned session %s from memory (file deleted)", s.ID)
		}
	}

	if pruned > 0 {
		log.Infof("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
	}
	return pruned
}

// apiReachable reports whether a flying chess API answers at baseURL
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, cfg serverConfig) (string, error) {
	svcs, err := initializeServices(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to initialize services: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(svcs.game, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warnf("Internal HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
		if err := svcs.sessions.SaveAllSessions(); err != nil {
			log.Warnf("Failed to save sessions: %v", err)
		}
	}()

	return "http://" + listener.Addr().String(), nil
}

// runStdioMCP runs an MCP stdio server. It proxies to --api-url when that API
// is up; otherwise it starts an internal HTTP API and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := cmd.String("api-url")
	log.Infof("Checking for external API server at %s...", baseURL)

	if apiReachable(ctx, baseURL) {
		log.Infof("External API server found at %s, using it for MCP", baseURL)
	} else {
		log.Info("No external API server found, starting internal HTTP server")

		internalURL, err := startInternalAPI(ctx, configFromCommand(cmd))
		if err != nil {
			return err
		}
		baseURL = internalURL
		log.Infof("Internal HTTP server listening on %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
