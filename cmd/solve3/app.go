package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/solve3/go-solve3/campaign"
	"github.com/solve3/go-solve3/config"
	"github.com/solve3/go-solve3/engine"
	"github.com/solve3/go-solve3/log"
	"github.com/solve3/go-solve3/signers"
	"github.com/solve3/go-solve3/sql"
	"github.com/solve3/go-solve3/token"
)

// app wires the engine and its stores to the database in the data folder.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	fileLock *flock.Flock

	db       *sql.Database
	registry *signers.Registry
	bank     *token.Ledger
	ledger   *campaign.Ledger
	engine   *engine.Engine
}

func (a *app) moduleLogger(name, level string) (*zap.Logger, error) {
	return log.New(name, level, a.cfg.Logging.Encoder)
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	if a.logger, err = a.moduleLogger("solve3", cfg.Logging.App); err != nil {
		return nil, err
	}
	loggers := map[string]*zap.Logger{}
	for name, level := range map[string]string{
		"engine":   cfg.Logging.Engine,
		"signers":  cfg.Logging.Signers,
		"campaign": cfg.Logging.Campaign,
		"token":    cfg.Logging.Token,
		"database": cfg.Logging.Database,
	} {
		if loggers[name], err = a.moduleLogger(name, level); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data folder %s: %w", cfg.DataDir, err)
	}
	a.db, err = sql.Open(cfg.DatabasePath(),
		sql.WithLogger(loggers["database"]),
		sql.WithConnections(cfg.DatabaseConnections),
		sql.WithBusyTimeout(cfg.DatabaseBusyTimeout),
		sql.WithLatencyMetering(cfg.DatabaseLatencyMetering),
	)
	if err != nil {
		return nil, err
	}
	a.registry, err = signers.New(a.db,
		signers.WithLogger(loggers["signers"]),
		signers.WithCacheSize(cfg.Engine.SignersCacheSize),
	)
	if err != nil {
		return nil, errors.Join(err, a.db.Close())
	}
	a.bank = token.New(token.WithLogger(loggers["token"]))
	a.ledger = campaign.New(a.bank, a.registry, cfg.Engine.Pool, campaign.WithLogger(loggers["campaign"]))
	a.engine = engine.New(a.db, a.registry, a.ledger,
		engine.WithLogger(loggers["engine"]),
		engine.WithConfig(cfg.Engine),
	)
	return a, nil
}

// Lock makes sure only one server runs on top of the data folder.
func (a *app) Lock() error {
	path := a.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating dir for lock %s: %w", path, err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("flock %s: %w", path, err)
	} else if !locked {
		return fmt.Errorf("only one solve3 server should be running (locking file %s)", fl.Path())
	}
	a.fileLock = fl
	return nil
}

// Unlock releases the server lock. It is a no-op if the app is not locked.
func (a *app) Unlock() {
	if a.fileLock == nil {
		return
	}
	if err := a.fileLock.Unlock(); err != nil {
		a.logger.Error("failed to unlock file", zap.String("path", a.fileLock.Path()), zap.Error(err))
	}
	a.fileLock = nil
}

func (a *app) Close() error {
	a.Unlock()
	_ = a.logger.Sync()
	return a.db.Close()
}

// withApp runs fn with an app that is closed afterwards.
func withApp(fn func(*app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	return errors.Join(fn(a), a.Close())
}
