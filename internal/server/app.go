// Package server assembles the microblog core: it opens the configured store,
// applies migrations, builds the services and keeps them alive until the
// process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"github.com/dmitrijs2005/microblog/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	Users         *services.UserService
	Relationships *services.RelationshipService
	Microposts    *services.MicropostService
	Feed          *services.FeedService
	Sessions      *services.SessionService
}

// NewApp connects to c.DatabaseDSN, migrates the schema and wires the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, dialect, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.New(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	logger.Info(ctx, "database ready", "dialect", string(dialect))

	users := services.NewUserService(db, m, logger)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		Users:         users,
		Relationships: services.NewRelationshipService(db, m, logger),
		Microposts:    services.NewMicropostService(db, m, c.MaxPostLength, logger),
		Feed:          services.NewFeedService(db, m, logger),
		Sessions:      services.NewSessionService(db, m, users, c, logger),
	}, nil
}

// EnsureAdmin makes sure the account configured by AdminEmail exists and is
// elevated. It does nothing when AdminEmail is empty.
func (app *App) EnsureAdmin(ctx context.Context) error {
	email := app.config.AdminEmail
	if email == "" {
		return nil
	}

	user, err := app.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		name := app.config.AdminName
		if name == "" {
			name = "Administrator"
		}
		user, err = app.Users.Create(ctx, services.NewUser{
			Name:         name,
			Email:        email,
			Password:     app.config.AdminPassword,
			Confirmation: app.config.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
	}

	if user.IsElevated {
		return nil
	}
	_, err = app.Users.SetElevated(ctx, user.ID, true)
	return err
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// StartSessionPurger removes expired sessions every interval until ctx is done.
func (app *App) StartSessionPurger(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, err := app.Sessions.PurgeExpired(ctx)
			cancel()

			if err != nil {
				app.logger.Warn(ctx, "session purge failed", "error", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

// Run bootstraps the admin account and blocks until ctx is cancelled or a
// termination signal arrives, then closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.EnsureAdmin(ctx); err != nil {
		app.logger.Error(ctx, "admin bootstrap failed", "error", err)
		_ = app.Close()
		return err
	}

	var wg sync.WaitGroup
	if app.config.SessionPurgeInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.StartSessionPurger(ctx, app.config.SessionPurgeInterval)
		}()
	}

	<-ctx.Done()
	wg.Wait()

	app.logger.Info(context.Background(), "Stopping app...")
	return app.Close()
}

func (app *App) Close() error {
	return app.db.Close()
}
