package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/studio-settings/internal/application"
	"github.com/eugenenazirov/studio-settings/internal/config"
	"github.com/eugenenazirov/studio-settings/internal/logging"
	"github.com/eugenenazirov/studio-settings/internal/settings"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("studio-settings", "Studio settings service - loads, validates, and serves the CMS environment document")

	serveCmd := kingpinApp.Command("serve", "Load the environment document and serve it over HTTP").Default()
	configFile := serveCmd.Flag("config", "Path to YAML configuration file").String()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	settingsFile := serveCmd.Flag("settings", "Path to the environment document (JSON or YAML)").String()
	strictFlag := serveCmd.Flag("strict", "Refuse to start unless the document is deployment-ready").Bool()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	checkCmd := kingpinApp.Command("check", "Validate an environment document and report every finding")
	checkFile := checkCmd.Arg("file", "Path to the environment document").Required().String()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	if command == checkCmd.FullCommand() {
		os.Exit(runCheck(os.Stdout, *checkFile))
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *settingsFile != "" {
		overrides.SettingsFile = settingsFile
	}

	if *strictFlag {
		overrides.Strict = strictFlag
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	bootstrapLogger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	doc, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		bootstrapLogger.Fatal("failed to load environment document", zap.Error(err))
	}

	findings := doc.Validate()
	for _, finding := range findings {
		bootstrapLogger.Warn("settings finding",
			zap.String("key", finding.Key),
			zap.String("problem", finding.Problem),
		)
	}
	if len(findings) > 0 && cfg.StrictValidation {
		bootstrapLogger.Fatal("environment document is not deployment-ready",
			zap.String("settings_file", cfg.SettingsFile),
			zap.Int("findings", len(findings)),
		)
	}

	// Rebuild the logger from the document's own logging settings. An
	// unresolved LOG_DIR placeholder is fatal here regardless of strict
	// mode: the literal sentinel must never reach the filesystem.
	logger, err := logging.FromSettings(doc)
	if err != nil {
		bootstrapLogger.Fatal("failed to initialize logger from settings", zap.Error(err))
	}
	_ = bootstrapLogger.Sync()
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, doc, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// runCheck validates the document at path and reports every finding. It
// returns the process exit code: 0 when deployment-ready, 1 otherwise.
func runCheck(w io.Writer, path string) int {
	doc, err := settings.Load(path)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return 1
	}

	findings := doc.Validate()
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s: deployment-ready\n", path)
		return 0
	}

	for _, finding := range findings {
		fmt.Fprintf(w, "%s: %s\n", finding.Key, finding.Problem)
	}
	fmt.Fprintf(w, "%s: %d finding(s)\n", path, len(findings))
	return 1
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
