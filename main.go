package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/assets"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/events"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/ledger"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStore := openStore(cfg.DBPath)
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()
	led := ledger.New(ledger.NewKVPersister(kv))
	if err := led.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("load progress, starting from defaults")
	}
	led.Evaluate()

	// Rounds are refused with ErrNotReady until this completes.
	src := words.NewSource(cfg.WordsDir, cfg.DefaultLanguage)
	go func() {
		if err := src.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("some word lists failed to load; fallback list will be used")
		}
	}()

	bus := &events.Bus{}
	bus.Subscribe(func(e events.Event) {
		log.Debug().Str("event", string(e.Type)).Str("cue", e.Cue).Str("letter", e.Letter).Str("achievement", e.Achievement).Msg("event")
	})

	sess := game.NewSession(src, led,
		game.WithBus(bus),
		game.WithDailySalt(cfg.DailySalt),
		game.WithLanguage(cfg.DefaultLanguage),
		game.WithCategory(cfg.DefaultCategory),
	)
	srv := httpserver.New(sess, led, src, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})

	log.Info().Str("port", cfg.Port).Str("lang", sess.Language()).Msg("starting hangman server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}

// openStore returns the SQLite store at path and its closer, or an in-memory
// store when path is empty or the database cannot be opened.
func openStore(path string) (store.Store, func() error) {
	noop := func() error { return nil }
	if path == "" {
		log.Info().Msg("DB_PATH empty, progress kept in memory")
		return store.NewMemoryStore(), noop
	}
	db, err := store.Open(path)
	if err == nil {
		err = store.Migrate(db, assets.Migrations())
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		log.Error().Err(err).Str("path", path).Msg("open database, progress kept in memory")
		return store.NewMemoryStore(), noop
	}
	log.Info().Str("path", path).Msg("database ready")
	return store.NewSQLiteStore(db), db.Close
}
