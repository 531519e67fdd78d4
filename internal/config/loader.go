package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all toolkit settings.
const envPrefix = "MOLTHERM"

// newViper builds a pre-configured Viper instance with the toolkit's standard
// settings: YAML file type, MOLTHERM_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "database.host" resolve to "MOLTHERM_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Viper only consults the environment for keys it already knows about, so
	// every key is registered here with a zero default; the real defaults are
	// applied by ApplyDefaults after unmarshalling.
	for _, key := range []string{
		"workflow.base_dir", "workflow.reactant_prefix",
		"workflow.product_prefix", "workflow.report_filename",
		"database.host", "database.port", "database.user",
		"database.password", "database.db_name", "database.ssl_mode",
		"database.max_conns", "database.min_conns",
		"database.conn_max_lifetime", "database.migrations_path",
		"log.level", "log.format", "log.output_paths",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges any MOLTHERM_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLTHERM_* environment variables,
// with no config file required.  This keeps the CLI usable on a cluster head
// node without any file in place.
//
// Environment variable naming convention:
//
//	MOLTHERM_<SECTION>_<FIELD>   e.g.  MOLTHERM_WORKFLOW_BASE_DIR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
