// Package cmd implements the command-line interface for pspcrawl.
// It provides the root command and the subcommands that run and schedule
// the crawls.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parlwatch/pspcrawl/cmd/members"
	cmdmigrate "github.com/parlwatch/pspcrawl/cmd/migrate"
	cmdscheduler "github.com/parlwatch/pspcrawl/cmd/scheduler"
	"github.com/parlwatch/pspcrawl/cmd/votes"
	"github.com/parlwatch/pspcrawl/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the pspcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "pspcrawl",
		Short: "Incremental crawler for the Czech parliament voting records",
		Long: `pspcrawl crawls www.psp.cz and reconciles sittings, votings, individual
ballots and member profiles into a PostgreSQL database. Crawls are
incremental and idempotent: re-running over the same pages produces no
duplicate rows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to Viper.
	_ = godotenv.Load()

	// Parse flags early to pick up --config and --debug before Viper reads.
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or /etc/pspcrawl/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pspcrawl version %s\n", Version)
		},
	})

	rootCmd.AddCommand(votes.Command())
	rootCmd.AddCommand(cmdmigrate.Command())
	rootCmd.AddCommand(members.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
}

// initConfig reads in the config file and environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/pspcrawl")
	}

	config.SetDefaults(viper.GetViper())

	// The config file is optional; defaults plus environment variables are a
	// complete configuration.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if debug || viper.GetBool("app.debug") {
		viper.Set("log.level", "debug")
		viper.Set("log.development", true)
	}

	if strings.EqualFold(viper.GetString("app.environment"), "development") {
		viper.Set("log.development", true)
		viper.Set("log.encoding", "console")
	}

	return nil
}
