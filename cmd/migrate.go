package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/expense-tracker/db"
	"github.com/frahmantamala/expense-tracker/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

// gooseDriver maps the configured driver to the database/sql driver name and the
// goose dialect.
func gooseDriver(driver string) (sqlDriver, dialect string, err error) {
	switch driver {
	case internal.DriverPostgres:
		return "pgx", "postgres", nil
	case internal.DriverSQLite:
		return "sqlite3", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("driver %q has no migrations", driver)
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == internal.DriverMemory {
		fmt.Println("memory driver selected; nothing to migrate")
		return nil
	}

	sqlDriver, dialect, err := gooseDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}

	conn, err := sql.Open(sqlDriver, cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, conn, db.MigrationDir(cfg.Database.Driver)); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
