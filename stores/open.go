// Package stores opens the scs.Store backends that keep authdash browser
// sessions: memory, filesystem, SQLite, PostgreSQL and Cloud Datastore.
package stores

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	fsstore "github.com/panyam/authdash/stores/fs"
	gaestore "github.com/panyam/authdash/stores/gae"
	gormstore "github.com/panyam/authdash/stores/gorm"
)

// Backend names
const (
	Memory    = "memory"
	FS        = "fs"
	SQLite    = "sqlite"
	Postgres  = "postgres"
	Datastore = "datastore"
)

// Options selects and configures a backend
type Options struct {
	Kind string

	// fs
	Path string

	// sqlite, postgres
	DSN string

	// datastore
	DatastoreProject     string
	DatastoreNamespace   string
	DatastoreCredentials string

	// Secret, if set, encrypts session data at rest
	Secret string

	// How often expired sessions are swept. Zero disables the sweep.
	CleanupInterval time.Duration

	Logger *slog.Logger
}

// Cleaner is a store that can drop its expired sessions
type Cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// Open creates the store described by opts. The returned close function
// stops the sweeper and releases connections; it is never nil.
func Open(ctx context.Context, opts Options) (scs.Store, func() error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var store scs.Store
	closer := func() error { return nil }

	switch opts.Kind {
	case "", Memory:
		store = memstore.New()
	case FS:
		if opts.Path == "" {
			return nil, closer, fmt.Errorf("fs session store needs a path")
		}
		store = fsstore.NewSessionStore(opts.Path)
	case SQLite, Postgres:
		db, err := openGorm(opts.Kind, opts.DSN)
		if err != nil {
			return nil, closer, err
		}
		if err := gormstore.AutoMigrate(db); err != nil {
			return nil, closer, fmt.Errorf("failed to migrate session table: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, closer, err
		}
		store = gormstore.NewSessionStore(db)
		closer = sqlDB.Close
	case Datastore:
		var clientOpts []option.ClientOption
		if opts.DatastoreCredentials != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(opts.DatastoreCredentials))
		}
		client, err := datastore.NewClient(ctx, opts.DatastoreProject, clientOpts...)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to create datastore client: %w", err)
		}
		store = gaestore.NewSessionStore(client, opts.DatastoreNamespace)
		closer = client.Close
	default:
		return nil, closer, fmt.Errorf("unknown session store %q", opts.Kind)
	}

	if cleaner, ok := store.(Cleaner); ok && opts.CleanupInterval > 0 {
		sweepCtx, cancel := context.WithCancel(ctx)
		go RunCleanup(sweepCtx, cleaner, opts.CleanupInterval, logger)
		release := closer
		closer = func() error {
			cancel()
			return release()
		}
	}

	if opts.Secret != "" {
		sealed, err := NewSealed(store, opts.Secret)
		if err != nil {
			closer()
			return nil, func() error { return nil }, err
		}
		store = sealed
	}
	return store, closer, nil
}

func openGorm(kind, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s session store needs a dsn", kind)
	}
	var dialector gorm.Dialector
	if kind == SQLite {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", kind, err)
	}
	return db, nil
}

// RunCleanup sweeps expired sessions every interval until ctx is done
func RunCleanup(ctx context.Context, c Cleaner, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.Cleanup(ctx)
			if err != nil {
				logger.Warn("session cleanup failed", "err", err)
			} else if n > 0 {
				logger.Debug("removed expired sessions", "count", n)
			}
		}
	}
}
