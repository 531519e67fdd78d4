// Package config defines all configuration structures for the MolTherm
// analysis toolkit.  No I/O or parsing logic lives here — only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// WorkflowConfig holds the reaction-directory conventions shared by the
// associator and aggregator.
type WorkflowConfig struct {
	// BaseDir is the directory under which reaction subdirectories live.
	BaseDir string `mapstructure:"base_dir"`

	// ReactantPrefix marks .mol files (and their calculation outputs) that
	// belong to the reactant side of a reaction.
	ReactantPrefix string `mapstructure:"reactant_prefix"`

	// ProductPrefix marks .mol files (and their calculation outputs) that
	// belong to the product side of a reaction.
	ProductPrefix string `mapstructure:"product_prefix"`

	// ReportFilename is the per-directory flat-file report name used by the
	// file sink.
	ReportFilename string `mapstructure:"report_filename"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the document
// store.  The store is optional: an empty Host means no store is configured,
// and store-backed operations will fail with a typed configuration error
// instead of silently producing empty results.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// Configured reports whether a document store has been configured at all.
func (d DatabaseConfig) Configured() bool {
	return d.Host != ""
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the toolkit.
type Config struct {
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Workflow.ReactantPrefix == "" {
		return fmt.Errorf("config: workflow.reactant_prefix is required")
	}
	if c.Workflow.ProductPrefix == "" {
		return fmt.Errorf("config: workflow.product_prefix is required")
	}
	if c.Workflow.ReactantPrefix == c.Workflow.ProductPrefix {
		return fmt.Errorf("config: workflow.reactant_prefix and workflow.product_prefix must differ, both are %q",
			c.Workflow.ReactantPrefix)
	}
	if c.Workflow.ReportFilename == "" {
		return fmt.Errorf("config: workflow.report_filename is required")
	}

	// The database block is optional, but when a host is given the remaining
	// connection parameters must be usable.
	if c.Database.Configured() {
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
