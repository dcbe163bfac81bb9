package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/app"
	"fitting-room/internal/application/services"
	"fitting-room/internal/application/usecases"
	"fitting-room/internal/infrastructure/api"
	"fitting-room/internal/infrastructure/config"
	"fitting-room/internal/infrastructure/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", "console")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := log.Logger.WithContext(context.Background())

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build try-on pipeline")
	}
	defer application.Close()

	room := usecases.NewFittingRoom(application.TryOn)
	server := newServer(cfg, application, room)

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.ModelBackend).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown
	log.Info().Msg("server shutting down")

	room.Reset(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server stopped")
}

func newServer(cfg config.Config, application *app.App, room *usecases.FittingRoom) *http.Server {
	handler := api.NewFittingRoomHandler(
		room,
		application.Catalog,
		services.NewParameterService(application.Catalog),
		cfg.MaxUploadBytes,
	)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.WithCORS(api.RequestLogger(handler.Routes()), cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
