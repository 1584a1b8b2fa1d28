// Package migrate implements the migrate command, applying the SQL schema
// migrations from the migrations directory.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migration target
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// source
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parlwatch/pspcrawl/internal/config"
)

// migrationsPath is the relative path to the migrations directory.
const migrationsPath = "file://migrations"

// Command returns the migrate command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE:      run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	direction := args[0]
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid direction %q (must be \"up\" or \"down\")", direction)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	m, err := migrate.New(migrationsPath, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	return nil
}
