package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/docpanel/docpanel/pkg/server"
	"github.com/docpanel/docpanel/pkg/storage"
)

// env returns an environment variable's value, or fallback when unset.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		addr       = flag.String("addr", env("DOCPANEL_ADDR", ":8080"), "Listen address")
		dataDir    = flag.String("data-dir", env("DOCPANEL_DATA_DIR", "./data"), "Data directory for database files")
		secureDB   = flag.String("secure-db", env("DOCPANEL_SECURE_DB", "secure_auth"), "Name of the credential database")
		adminUser  = flag.String("admin-user", env("DOCPANEL_ADMIN_USER", "admin"), "Default admin username created on an empty credential store")
		adminPass  = flag.String("admin-pass", env("DOCPANEL_ADMIN_PASS", "admin123"), "Default admin password created on an empty credential store")
		autoSave   = flag.Duration("auto-save", 0, "Background save interval (e.g. 5m, 30s). Set to 0 to disable.")
		logLevel   = flag.String("log-level", env("DOCPANEL_LOG_LEVEL", "info"), "Log level (trace, debug, info)")
		logFile    = flag.String("log-file", env("DOCPANEL_LOG_FILE", ""), "Rotating log file path (console only when empty)")
		seedSample = flag.Bool("seed", false, "Populate test_db with sample collections and exit")
		showHelp   = flag.Bool("help", false, "Show help message")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndocpanel is a web admin console over an embedded document store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Start with defaults\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -addr :9090 -data-dir /var/lib/docpanel\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -auto-save 5m                    # Save dirty databases every 5 minutes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -seed                            # Load sample data, then exit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSafety Note:\n")
		fmt.Fprintf(os.Stderr, "  Without -auto-save, data is only saved on graceful shutdown.\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	setupLogging(*logLevel, *logFile)

	var engineOptions []storage.EngineOption
	if *autoSave > 0 {
		engineOptions = append(engineOptions, storage.WithAutoSave(*autoSave))
		log.Info().Dur("interval", *autoSave).Msg("background save enabled")
	} else {
		log.Warn().Msg("background save disabled - data only saved on graceful shutdown")
	}

	cluster, err := storage.NewCluster(*dataDir, engineOptions...)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("failed to open cluster")
	}
	cluster.SetLogger(log.Logger)

	if *seedSample {
		if err := seedSampleData(cluster); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
		if err := cluster.Close(); err != nil {
			log.Fatal().Err(err).Msg("failed to save seeded data")
		}
		log.Info().Msg("sample data seeded")
		return
	}

	srv, err := server.NewServer(cluster, *secureDB, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	if err := srv.Bootstrap(*adminUser, *adminPass); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap credential store")
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: srv.Router(),
	}

	go func() {
		log.Info().Str("addr", *addr).Str("data_dir", *dataDir).Msg("starting docpanel server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	if err := cluster.Close(); err != nil {
		log.Error().Err(err).Msg("failed to save databases on shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupLogging(level, logFile string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()

	if logFile != "" {
		fileConsole := zerolog.ConsoleWriter{
			Out:        rotatingWriter(logFile),
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		}
		multi := zerolog.MultiLevelWriter(console, fileConsole)
		log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	}
}
