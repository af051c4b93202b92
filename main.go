package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Min-Trees/abc-interview-microservice/internal/app"
	"github.com/Min-Trees/abc-interview-microservice/internal/config"
	"github.com/Min-Trees/abc-interview-microservice/pkg/logger"
)

func main() {
	workerOnly := len(os.Args) > 1 && os.Args[1] == "worker"

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	if workerOnly {
		log.Info().Msg("Starting standalone grading worker...")
		if err := application.RunWorker(ctx); err != nil {
			log.Error().Err(err).Msg("Grading worker failed")
		}
	} else {
		go func() {
			if err := application.Run(); err != nil {
				log.Fatal().Err(err).Msg("Failed to run application")
			}
		}()

		log.Info().Msgf("NLP Service started on %s", cfg.Server.Address)
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}
}
