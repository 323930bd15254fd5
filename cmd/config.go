package cmd

import (
	"fmt"
	"strings"

	"pg-typemap/internal/goctl"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in settings (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	if activeConfig.Driver == "" {
		activeConfig.Driver = DetectDriver(activeConfig.DSN)
	}
	return activeConfig, nil
}

// DetectDriver guesses the database/sql driver name from a DSN.
func DetectDriver(dsn string) string {
	if strings.Contains(dsn, "postgres") || strings.Contains(dsn, "sslmode") {
		return "postgres"
	}
	return "mysql"
}

// representation resolves the target representation (Flag > Settings > Default).
func representation() goctl.Representation {
	return goctl.Representation{
		NullType:  viper.GetString("mapping.null_type"),
		Type:      viper.GetString("mapping.type"),
		VectorPkg: viper.GetString("mapping.vector_pkg"),
	}.WithDefaults()
}
