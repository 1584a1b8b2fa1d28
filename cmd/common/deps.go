// Package common provides shared dependency wiring for command
// implementations.
package common

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"github.com/parlwatch/pspcrawl/internal/config"
	"github.com/parlwatch/pspcrawl/internal/crawl"
	"github.com/parlwatch/pspcrawl/internal/database"
	"github.com/parlwatch/pspcrawl/internal/fetch"
	"github.com/parlwatch/pspcrawl/internal/logger"
)

// CommandDeps holds everything a crawl command needs: configuration, a
// logger tagged with a per-invocation run id, the database pool and the HTTP
// client. Build once per process, Close when done.
type CommandDeps struct {
	Config *config.Config
	Logger logger.Interface
	DB     *sqlx.DB
	Fetch  *fetch.Client
}

// NewCommandDeps builds the shared dependencies from the global Viper
// configuration set up by the root command.
func NewCommandDeps() (*CommandDeps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	runLog := log.With("run_id", uuid.New().String())

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &CommandDeps{
		Config: cfg,
		Logger: runLog,
		DB:     db,
		Fetch:  fetch.New(cfg.Fetch, runLog),
	}, nil
}

// CrawlDeps adapts the command dependencies for the crawl jobs.
func (d *CommandDeps) CrawlDeps() crawl.Deps {
	return crawl.Deps{
		DB:      d.DB,
		Fetcher: d.Fetch,
		Config:  d.Config,
		Log:     d.Logger,
	}
}

// Close releases the database pool.
func (d *CommandDeps) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
