// Package config provides configuration loading, defaults, and validation for
// the MolTherm analysis toolkit.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultReactantPrefix = "rct_"
	DefaultProductPrefix  = "pro_"
	DefaultReportFilename = "thermo.txt"

	DefaultDBPort         = 5432
	DefaultDBName         = "moltherm"
	DefaultDBMaxConns     = 10
	DefaultMigrationsPath = "migrations"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// ApplyDefaults fills every zero-value field in cfg with the toolkit default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate().
//
// The database host deliberately has no default: an empty host means "no
// document store configured", which store-backed operations report as a typed
// configuration error when — and only when — they are invoked.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Workflow ──────────────────────────────────────────────────────────────
	if cfg.Workflow.BaseDir == "" {
		cfg.Workflow.BaseDir = "."
	}
	if cfg.Workflow.ReactantPrefix == "" {
		cfg.Workflow.ReactantPrefix = DefaultReactantPrefix
	}
	if cfg.Workflow.ProductPrefix == "" {
		cfg.Workflow.ProductPrefix = DefaultProductPrefix
	}
	if cfg.Workflow.ReportFilename == "" {
		cfg.Workflow.ReportFilename = DefaultReportFilename
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = DefaultMigrationsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
