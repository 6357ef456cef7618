package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchTracker/internal/auth"
	"matchTracker/internal/config"
	"matchTracker/internal/db"
	"matchTracker/internal/httpapi"
	"matchTracker/internal/logging"
	"matchTracker/models"
	"matchTracker/repository"
)

func main() {
	promote := flag.String("promote", "", "grant the admin role to `username` and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.Info().Str("config", cfg.String()).Msg("configuration loaded")

	// Open DB
	store, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, db.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("open db")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("close db")
		}
	}()

	users := repository.NewUserRepository(store)

	if *promote != "" {
		code := promoteAdmin(users, *promote)
		_ = store.Close()
		os.Exit(code)
	}

	sessions, closeSessions, err := openSessionStore(cfg.Session)
	if err != nil {
		logging.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("open session store")
	}
	defer closeSessions()

	tokens, err := auth.NewTokenCodec(cfg.Session.Secret, cfg.Session.CookieName)
	if err != nil {
		logging.Fatal().Err(err).Msg("token codec")
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Entries:     repository.NewEntryRepository(store),
		Tournaments: repository.NewTournamentRepository(store),
		Auth:        auth.NewService(users, sessions, cfg.Session.TTL, cfg.Auth.BcryptCost),
		Tokens:      tokens,
		DB:          store,
		Pool:        store.DB,
	}, httpapi.OptionsFromConfig(cfg))

	// Start HTTP
	shutdown, err := httpapi.Start(cfg.HTTP.Address, srv)
	if err != nil {
		logging.Fatal().Err(err).Str("addr", cfg.HTTP.Address).Msg("start http")
	}
	logging.Info().Str("addr", cfg.HTTP.Address).Msg("HTTP server listening")

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}

// openSessionStore builds the configured session store and returns its closer.
func openSessionStore(cfg config.SessionConfig) (auth.SessionStore, func(), error) {
	if cfg.Store != "badger" {
		return auth.NewMemoryStore(), func() {}, nil
	}
	bdb, err := auth.OpenBadger(cfg.BadgerPath)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := bdb.Close(); err != nil {
			logging.Warn().Err(err).Msg("close session store")
		}
	}
	return auth.NewBadgerStore(bdb), closer, nil
}

// promoteAdmin is the only way to create an admin. It returns the exit code.
func promoteAdmin(users *repository.UserRepository, username string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ok, err := users.UpdateRoleByUsername(ctx, username, models.RoleAdmin)
	if err != nil {
		logging.Error().Err(err).Str("username", username).Msg("promote")
		return 1
	}
	if !ok {
		logging.Error().Str("username", username).Msg("no such account")
		return 1
	}
	logging.Info().Str("username", username).Msg("account promoted to admin")
	return 0
}
