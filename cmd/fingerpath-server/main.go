// Command fingerpath-server runs the driver headless and streams frames over websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/config"
	"github.com/lixenwraith/fingerpath/engine"
	"github.com/lixenwraith/fingerpath/lesson"
	"github.com/lixenwraith/fingerpath/server"
	"github.com/lixenwraith/fingerpath/status"
)

var (
	configFlag   = flag.String("config", config.DefaultPath, "YAML config file")
	addrFlag     = flag.String("addr", "", "Listen address, overrides config")
	lessonsFlag  = flag.String("lessons", "", "Lesson catalog file")
	logLevelFlag = flag.String("log-level", "info", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevelFlag)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	if *lessonsFlag != "" {
		cfg.LessonsPath = *lessonsFlag
	}

	catalog, err := lesson.LoadAuto(cfg.LessonsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load lessons")
	}

	reg := status.NewRegistry()
	loop := engine.NewLoop(cfg.FrameInterval)
	driver := engine.NewDriver(loop, nil, nil, reg, cfg.Engine)
	loop.Start()
	defer loop.Stop()

	hub := server.NewHub(loop, driver, server.Options{
		FrameInterval: cfg.FrameInterval,
		WriteDeadline: cfg.Server.WriteDeadline,
		Lessons:       catalog,
		Registry:      reg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Int("lessons", catalog.Len()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listen")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}
