package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"data-recon/internal/backend"
	"data-recon/internal/dialect"
)

// EndpointConfig describes one side of a comparison: a named connection plus
// the database/schema the tables live in.
type EndpointConfig struct {
	Name     string `mapstructure:"name"`
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Database string `mapstructure:"database"`
	Schema   string `mapstructure:"schema"`
}

// GetEndpointConfig reads the "source" or "target" block from the config.
func GetEndpointConfig(side string) (*EndpointConfig, error) {
	if !viper.IsSet(side) {
		return nil, fmt.Errorf("missing %q endpoint in config (add a %s: block to data-recon.yaml)", side, side)
	}

	var ep EndpointConfig
	if err := viper.UnmarshalKey(side, &ep); err != nil {
		return nil, fmt.Errorf("failed to parse %s endpoint config: %w", side, err)
	}
	if ep.DSN == "" {
		return nil, fmt.Errorf("%s endpoint has no dsn", side)
	}
	if ep.Driver == "" {
		ep.Driver = detectDriver(ep.DSN)
	}
	if ep.Name == "" {
		ep.Name = side
	}
	return &ep, nil
}

// detectDriver guesses the driver from DSN shape when the config omits it.
func detectDriver(dsn string) string {
	switch {
	case strings.Contains(dsn, "postgres") || strings.Contains(dsn, "sslmode"):
		return "postgres"
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(dsn, "oracle://"):
		return "oracle"
	default:
		return "mysql"
	}
}

// openEndpoint connects one side and resolves its dialect.
func openEndpoint(ctx context.Context, ep *EndpointConfig) (*sql.DB, dialect.Dialect, error) {
	db, err := backend.Connect(ctx, ep.Driver, ep.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("endpoint %s: %w", ep.Name, err)
	}
	return db, dialect.GetDialect(ep.Driver), nil
}

// tableFor binds an endpoint to one physical table.
func tableFor(db *sql.DB, d dialect.Dialect, ep *EndpointConfig, table string) *backend.Table {
	return backend.NewTable(db, d, backend.TableRef{
		Database: ep.Database,
		Schema:   ep.Schema,
		Table:    table,
	})
}
