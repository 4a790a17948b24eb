// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/tastebox/internal/api/connect"
	"github.com/osa030/tastebox/internal/api/rest"
	"github.com/osa030/tastebox/internal/app/report"
	"github.com/osa030/tastebox/internal/infra/config"
	"github.com/osa030/tastebox/internal/infra/logger"
	"github.com/osa030/tastebox/internal/infra/spotify"
)

var (
	app        = kingpin.New("tastebox-server", "tastebox listening-taste report server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-reports command
	listReportsCmd = app.Command("list-reports", "List available reports and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-reports command
	if command == listReportsCmd.FullCommand() {
		printReports()
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	// Initialize logger; command-line flags override the config file
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}
	if cfg.Log.File != "" {
		loggerConfig.Output = "file"
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = "file"
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer closer.Close()

	zlog.Info().Msgf("Loaded config from %s", *configPath)

	// Run server (defer ensures shutdown hook is called)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	// Create Spotify client
	spotifyClient, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		Market:       cfg.Spotify.Market,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create Spotify client")
	}

	// Check the refresh token before accepting requests
	userID, err := spotifyClient.CurrentUserID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to verify Spotify credentials")
	}
	zlog.Info().Msgf("Authenticated to Spotify: user=%s", userID)

	aggregator := report.New(spotifyClient,
		report.WithGenreConcurrency(cfg.Reports.GenreLookupConcurrency))
	defaultRange := cfg.DefaultTimeRange()

	// Create HTTP mux: RPC under its service path, JSON endpoints elsewhere
	mux := http.NewServeMux()

	tastePath, tasteHandler := apiconnect.NewTasteServiceHandler(
		apiconnect.NewTasteService(aggregator, defaultRange),
		apiconnect.HandlerOptions(cfg.API.Token)...,
	)
	mux.Handle(tastePath, tasteHandler)
	mux.Handle("/", rest.NewServer(rest.Config{
		Aggregator:       aggregator,
		DefaultTimeRange: defaultRange,
		APIToken:         cfg.API.Token,
	}))

	if !cfg.APITokenRequired() {
		zlog.Warn().Msg("No API token configured, reports are served without authentication")
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.Server.Addr)
	}

	// Channel to capture server errors
	serverErrCh := make(chan error, 1)

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s default_time_range=%s", listener.Addr(), defaultRange)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Execute startup hook if configured (after server is listening)
	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	// Execute shutdown hook if configured
	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// printReports prints available reports.
func printReports() {
	fmt.Println("Available Reports:")
	for _, def := range report.Registered() {
		window := ""
		if def.TimeRanged {
			window = " [time_range]"
		}
		fmt.Printf("  %-30s - %s%s\n", def.Name, def.Description, window)
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
