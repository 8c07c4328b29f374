package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/backup"
	"github.com/vbonduro/sitelog/internal/backup/local"
	"github.com/vbonduro/sitelog/internal/backup/s3"
	"github.com/vbonduro/sitelog/internal/config"
	"github.com/vbonduro/sitelog/internal/db"
	"github.com/vbonduro/sitelog/internal/geocode"
	"github.com/vbonduro/sitelog/internal/logging"
	"github.com/vbonduro/sitelog/internal/service"
	"github.com/vbonduro/sitelog/internal/store"
)

// app holds everything a command needs. Close releases it in reverse order.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *service.SiteService

	database *sql.DB
	reader   *attachment.Reader
	closeLog func()
}

// setup loads config, opens the database and loads the stored state.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closeLog: cleanup}

	a.database, err = db.Open(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	a.reader, err = attachment.NewReader(cfg.AttachmentWorkers, cfg.AttachmentMaxBytes, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("start attachment reader: %w", err)
	}

	opts := []service.Option{service.WithLocation(cfg.Location())}
	if cfg.GeocodeEnabled {
		opts = append(opts, service.WithGeocoder(
			geocode.NewNominatimGeocoder(cfg.GeocodeURL, cfg.GeocodeCountry, cfg.GeocodeUserAgent, cfg.GeocodeTimeout)))
	}
	backups, err := newBackupStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if backups != nil {
		opts = append(opts, service.WithBackups(backups))
	}

	repo := store.NewStateRepository(store.NewDocumentStore(a.database), logger)
	a.service = service.NewSiteService(repo, a.reader, logger, opts...)
	if err := a.service.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newBackupStore(ctx context.Context, cfg *config.Config) (backup.Store, error) {
	switch cfg.BackupDriver {
	case "local":
		st, err := local.New(cfg.BackupLocalPath)
		if err != nil {
			return nil, fmt.Errorf("initialize local backups: %w", err)
		}
		return st, nil
	case "s3":
		st, err := s3.New(ctx, s3.Config{
			Region:    cfg.BackupS3Region,
			Bucket:    cfg.BackupS3Bucket,
			Endpoint:  cfg.BackupS3Endpoint,
			PathStyle: cfg.BackupS3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize s3 backups: %w", err)
		}
		return st, nil
	default:
		return nil, nil
	}
}

func (a *app) Close() {
	if a.reader != nil {
		a.reader.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Error("failed to close database", "error", err)
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// withApp wraps a command action with setup and teardown.
func withApp(action func(c *cli.Context, a *app) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := setup(c.Context)
		if err != nil {
			return err
		}
		defer a.Close()
		return action(c, a)
	}
}
