// Command authdash serves the authdash web front-end in front of an
// authentication API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/panyam/authdash"
	"github.com/panyam/authdash/client"
	"github.com/panyam/authdash/config"
	"github.com/panyam/authdash/stores"
)

const sessionCookieName = "authdash_session"

func main() {
	if err := run(os.Args[1:], os.Getenv, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "authdash:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(args []string, getenv func(string) string, logOut io.Writer) error {
	cfg, err := config.Load(args, getenv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, logOut)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := stores.Open(ctx, stores.Options{
		Kind:                 cfg.SessionStore,
		Path:                 cfg.SessionPath,
		DSN:                  cfg.SessionDSN,
		DatastoreProject:     cfg.DatastoreProject,
		DatastoreNamespace:   cfg.DatastoreNamespace,
		DatastoreCredentials: cfg.DatastoreCredentials,
		Secret:               cfg.SessionSecret,
		CleanupInterval:      5 * time.Minute,
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close session store", "err", err)
		}
	}()

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = cfg.SessionLifetime
	sm.Cookie.Name = sessionCookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure
	sm.ErrorFunc = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("session error", "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	// every call goes to the one API host
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32
	api := client.New(cfg.APIURL, client.WithTimeout(cfg.APITimeout), client.WithTransport(transport))

	app := &authdash.App{
		Session:       sm,
		API:           api,
		Logger:        logger,
		CSRFSecretKey: cfg.CSRFSecret,
		CSRFLifetime:  cfg.SessionLifetime,
	}
	app.EnsureDefaults()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("authdash listening", "addr", cfg.Addr, "api", cfg.APIURL, "session_store", cfg.SessionStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
