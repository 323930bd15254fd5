package cmd

import (
	"database/sql"
	"fmt"

	"pg-typemap/internal/dialect"
	"pg-typemap/internal/engine"
	"pg-typemap/internal/schema"

	"github.com/spf13/cobra"
)

var (
	dsn        string
	driverName string
	schemaName string
)

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Read custom types from a live database and merge them into goctl.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return fmt.Errorf("--config is required")
		}

		config, err := resolveDBConfig()
		if err != nil {
			return err
		}

		logger := newLogger()
		logger.Info("connecting", "name", config.Name, "driver", config.Driver)

		ctx := cmd.Context()
		db, err := sql.Open(config.Driver, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		d := dialect.GetDialect(config.Driver)
		target := config.Schema
		if target == "" && d.Name() == "mysql" {
			if err := db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&target); err != nil {
				return fmt.Errorf("failed to get database name: %w", err)
			}
			if target == "" {
				return fmt.Errorf("no database selected in DSN")
			}
		}

		logger.Info("introspecting types", "schema", d.GetSchemaName(target))
		res, err := schema.Introspect(ctx, db, d, target)
		if err != nil {
			return err
		}

		report, err := engine.Apply(res, engine.Options{
			ConfigFile:     configFile,
			OutputFile:     outputFile,
			Representation: representation(),
		}, logger)
		if err != nil {
			return err
		}

		printReport(report)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(introspectCmd)

	introspectCmd.Flags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN); overrides the active database in settings")
	introspectCmd.Flags().StringVar(&driverName, "driver", "", "Database driver: postgres or mysql (detected from the DSN if empty)")
	introspectCmd.Flags().StringVar(&schemaName, "schema", "", "Database schema (default: public for PostgreSQL, the DSN database for MySQL)")
}

// resolveDBConfig picks the connection: --dsn flag first, then the active settings entry.
func resolveDBConfig() (*DBConfig, error) {
	var config *DBConfig
	if dsn != "" {
		config = &DBConfig{Name: "CLI", Driver: driverName, DSN: dsn, Active: true}
		if config.Driver == "" {
			config.Driver = DetectDriver(dsn)
		}
	} else {
		active, err := GetActiveDBConfig()
		if err != nil {
			return nil, fmt.Errorf("could not determine database: use --dsn or configure databases in settings: %w", err)
		}
		config = active
	}

	if schemaName != "" {
		config.Schema = schemaName
	}
	return config, nil
}
