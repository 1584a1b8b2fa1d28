// Package config loads application configuration from a YAML file and
// environment variables via Viper. Environment variables use the PSPCRAWL_
// prefix with underscores for nesting (PSPCRAWL_DATABASE_HOST).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/parlwatch/pspcrawl/internal/database"
	"github.com/parlwatch/pspcrawl/internal/fetch"
	"github.com/parlwatch/pspcrawl/internal/logger"
)

// Default seed locations on www.psp.cz.
const (
	DefaultBaseURL     = "https://www.psp.cz"
	DefaultVotesPath   = "/sqw/hp.sqw?k=27"
	DefaultMembersPath = "/sqw/organy2.sqw?k=1"
)

// Crawler defaults.
const (
	DefaultWorkers        = 4
	DefaultRequestTimeout = 30 * time.Second
)

// CrawlerConfig holds crawl traversal settings.
type CrawlerConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	VotesPath   string `mapstructure:"votes_path"`
	MembersPath string `mapstructure:"members_path"`
	Workers     int    `mapstructure:"workers"`
}

// VotesSeedURL returns the absolute seed URL of the votes crawl.
func (c CrawlerConfig) VotesSeedURL() string { return c.BaseURL + c.VotesPath }

// MembersSeedURL returns the absolute seed URL of the members crawl.
func (c CrawlerConfig) MembersSeedURL() string { return c.BaseURL + c.MembersPath }

// ScheduleConfig holds cron expressions for the scheduler command.
type ScheduleConfig struct {
	Votes   string `mapstructure:"votes"`
	Members string `mapstructure:"members"`
}

// AppConfig identifies the application instance.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Config is the root configuration.
type Config struct {
	App      AppConfig       `mapstructure:"app"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	Fetch    fetch.Config    `mapstructure:"fetch"`
	Crawler  CrawlerConfig   `mapstructure:"crawler"`
	Schedule ScheduleConfig  `mapstructure:"schedule"`
}

// SetDefaults registers every default value on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pspcrawl")
	v.SetDefault("app.environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "pspcrawl")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.retry_count", fetch.DefaultRetryCount)
	v.SetDefault("fetch.retry_wait", fetch.DefaultRetryWait)
	v.SetDefault("fetch.retry_max_wait", fetch.DefaultRetryMaxWait)

	v.SetDefault("crawler.base_url", DefaultBaseURL)
	v.SetDefault("crawler.votes_path", DefaultVotesPath)
	v.SetDefault("crawler.members_path", DefaultMembersPath)
	v.SetDefault("crawler.workers", DefaultWorkers)

	v.SetDefault("schedule.votes", "0 3 * * *")
	v.SetDefault("schedule.members", "0 4 * * 0")
}

// Load reads configuration from the given Viper instance.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("PSPCRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values that would only fail later
// and obscurely.
func (c *Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return errors.New("crawler.base_url must be set")
	}
	if !strings.HasPrefix(c.Crawler.BaseURL, "http") {
		return fmt.Errorf("crawler.base_url must be absolute: %s", c.Crawler.BaseURL)
	}
	if c.Crawler.Workers <= 0 {
		return errors.New("crawler.workers must be positive")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname must be set")
	}
	return nil
}
