package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/york1996-max/filebridge/internal/config"
	"github.com/york1996-max/filebridge/internal/logging"
	"github.com/york1996-max/filebridge/internal/server"
)

func main() {
	sourcesPath := flag.String("sources", "", "Path to the source definitions file (overrides SOURCES_FILE)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *sourcesPath != "" {
		cfg.Sources.File = *sourcesPath
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	sources, err := config.LoadSources(cfg.Sources.File)
	if err != nil {
		logger.Fatal("failed to load sources", zap.Error(err))
	}

	srv, err := server.NewServer(cfg, sources, logger)
	if err != nil {
		logger.Fatal("failed to create server", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}
