// Command cascadia starts the habitat tile game server.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket updates and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "score" scores layout files without starting a server
//
// Settings come from the environment (and an optional .env file) and can be
// overridden with flags. Optional ngrok tunneling gives easy external access
// during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/cascadia/api"
	"github.com/wricardo/mcp-training/cascadia/game/config"
	"github.com/wricardo/mcp-training/cascadia/game/engine"
	"github.com/wricardo/mcp-training/cascadia/game/service"
	"github.com/wricardo/mcp-training/cascadia/game/session"
	"github.com/wricardo/mcp-training/cascadia/transport/mcp"
	"github.com/wricardo/mcp-training/cascadia/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Habitat Tile Game Server"
)

// ServerConfig holds the process settings read from the environment
type ServerConfig struct {
	Host            string        `env:"HABITAT_HOST" envDefault:"localhost"`
	Port            int           `env:"HABITAT_PORT" envDefault:"8080"`
	ConfigDir       string        `env:"CONFIG_DIR" envDefault:"configs"`
	SessionTTL      time.Duration `env:"HABITAT_SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"HABITAT_CLEANUP_INTERVAL" envDefault:"1h"`
	Debug           bool          `env:"HABITAT_DEBUG"`
	NgrokEnabled    bool          `env:"NGROK_ENABLED"`
	NgrokAuthToken  string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain     string        `env:"NGROK_DOMAIN"`
}

// Addr returns the host:port the HTTP server listens on
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// loadServerConfig parses ServerConfig from the environment
func loadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.NgrokAuthToken == "" {
		cfg.NgrokAuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	return cfg, nil
}

// configFromCommand loads the environment settings and applies any flags
// given on the command line
func configFromCommand(cmd *cli.Command) (ServerConfig, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return cfg, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("config-dir") {
		cfg.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("session-ttl") {
		cfg.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("ngrok") {
		cfg.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.NgrokAuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.NgrokDomain = cmd.String("ngrok-domain")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "cascadia",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host (HABITAT_HOST)"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port (HABITAT_PORT)"},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing game configurations (CONFIG_DIR)"},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Remove sessions idle for longer than this (HABITAT_SESSION_TTL)"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging (HABITAT_DEBUG)"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel (NGROK_ENABLED)"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (NGROK_AUTHTOKEN)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (NGROK_DOMAIN)"},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server if needed",
				Action:  runStdioMCP,
			},
			{
				Name:      "score",
				Usage:     "Score layout files",
				ArgsUsage: "<layout-file>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print the breakdown as JSON"},
				},
				Action: runScore,
			},
		},
	}
}

// main loads .env and runs the command tree
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// services groups the long-lived components shared by the servers
type services struct {
	game     service.GameService
	sessions *session.Manager
	hub      *websocket.Hub
}

// initializeServices wires the config and session managers, the WebSocket hub
// and the game service. Background routines are started by start.
func initializeServices(cfg ServerConfig) (*services, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	hub := websocket.NewHub()

	return &services{
		game:     service.NewGameService(sessionManager, configManager, service.WithPresenter(hub)),
		sessions: sessionManager,
		hub:      hub,
	}, nil
}

// start runs the hub and the session cleanup routine until ctx is done
func (s *services) start(ctx context.Context, cfg ServerConfig) {
	go s.hub.Run(ctx)
	go sessionCleanupRoutine(ctx, s.sessions, cfg.CleanupInterval, cfg.SessionTTL)
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupSessions(manager, ttl)
		}
	}
}

func cleanupSessions(manager *session.Manager, ttl time.Duration) int {
	removed := manager.CleanupExpiredSessions(ttl)
	if removed > 0 {
		log.Printf("Cleaned up %d expired sessions", removed)
	}
	return removed
}

// newRouter mounts the REST API at the root and an MCP endpoint at /mcp
func newRouter(s *services, baseURL string) http.Handler {
	apiServer := api.NewServer(s.game, s.hub)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
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
	})

	return mainRouter
}

// runServe starts the HTTP server and, when enabled, an ngrok tunnel. It
// blocks until the context is cancelled.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.Debug)

	log.Printf("Starting %s v%s", AppName, Version)

	s, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.start(ctx, cfg)

	addr := cfg.Addr()
	handler := newRouter(s, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg, handler)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-serverErr:
	}
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, cfg ServerConfig, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a game API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an API already listening on
// the configured address; otherwise it starts an internal HTTP API on a random
// loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.Debug)

	externalURL := "http://" + cfg.Addr()
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	if apiAvailable(externalURL) {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		s, err := initializeServices(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		s.start(ctx, cfg)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		baseURL = "http://" + internalAddr
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{Handler: api.NewServer(s.game, s.hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := mcpClient.ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// scoreReport is the JSON form printed by the score command
type scoreReport struct {
	File   string                `json:"file"`
	Layout []string              `json:"layout"`
	Score  engine.ScoreBreakdown `json:"score"`
}

// runScore scores each layout file named on the command line
func runScore(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("score: at least one layout file is required")
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	var reports []scoreReport
	for _, file := range files {
		board, err := readLayoutFile(file)
		if err != nil {
			return err
		}
		reports = append(reports, scoreReport{
			File:   file,
			Layout: board.Layout(),
			Score:  engine.ComputeScore(&board),
		})
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, report := range reports {
		writeScoreReport(out, report)
	}
	return nil
}

func readLayoutFile(path string) (engine.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.Board{}, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	board, err := engine.ReadLayout(f)
	if err != nil {
		return engine.Board{}, fmt.Errorf("%s: %w", path, err)
	}
	return board, nil
}

func writeScoreReport(w io.Writer, report scoreReport) {
	fmt.Fprintf(w, "=== %s ===\n", report.File)
	for _, row := range report.Layout {
		fmt.Fprintf(w, "  %s\n", row)
	}
	for _, animal := range engine.AllAnimals {
		fmt.Fprintf(w, "%-9s %3d\n", animal, report.Score.PerSpecies[animal])
	}
	for _, habitat := range engine.AllHabitats {
		fmt.Fprintf(w, "%-9s %3d\n", habitat, report.Score.PerHabitat[habitat])
	}
	fmt.Fprintf(w, "%-9s %3d\n\n", "total", report.Score.Total)
}
