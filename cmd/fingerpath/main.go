package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/fingerpath/audio"
	"github.com/lixenwraith/fingerpath/config"
	"github.com/lixenwraith/fingerpath/lesson"
	"github.com/lixenwraith/fingerpath/store"
)

var (
	configFlag  = flag.String("config", config.DefaultPath, "YAML config file")
	lessonsFlag = flag.String("lessons", "", "Lesson catalog file (default: ./lessons.yaml or built-in)")
	lessonFlag  = flag.String("lesson", "", "Lesson id to start with")
	dbFlag      = flag.String("db", "", "SQLite database path, overrides config; \"none\" disables")
	debugFlag   = flag.Bool("debug", false, "Write logs to logs/fingerpath.log")
	muteFlag    = flag.Bool("mute", false, "Start with the metronome muted")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			handleCrash(r)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	catalog, err := lesson.LoadAuto(cfg.LessonsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load lessons: %v\n", err)
		os.Exit(1)
	}

	st := openStore(cfg)
	if st != nil {
		defer st.Close()
	}

	var player audio.Player
	sp := audio.NewSpeakerPlayer()
	if err := sp.Initialize(); err != nil {
		log.Warn().Err(err).Msg("audio disabled")
	} else {
		defer sp.Close()
		player = sp
	}

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	setCrashReset(screen.Fini)
	screen.HideCursor()

	a := newApp(cfg, catalog, st, player)
	a.attach(screen)
	defer a.shutdown()
	a.run()
}

func applyFlags(cfg *config.Config) {
	if *lessonsFlag != "" {
		cfg.LessonsPath = *lessonsFlag
	}
	if *lessonFlag != "" {
		cfg.Lesson = *lessonFlag
	}
	if *dbFlag == "none" {
		cfg.DBPath = ""
	} else if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *muteFlag {
		cfg.Sound.Enabled = false
	}
}

// openStore returns nil when persistence is off or fails; last settings replace config values
func openStore(cfg *config.Config) *store.Store {
	if cfg.DBPath == "" {
		return nil
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("store disabled")
		return nil
	}
	s, err := st.LoadSettings(context.Background())
	switch {
	case err == nil:
		cfg.Engine = s
	case !errors.Is(err, store.ErrNotFound):
		log.Warn().Err(err).Msg("load settings")
	}
	return st
}
