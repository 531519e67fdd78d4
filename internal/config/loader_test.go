package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moltherm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfigFile(t, `
workflow:
  base_dir: /data/reactions
  reactant_prefix: r_
  product_prefix: p_
  report_filename: results.txt
database:
  host: db.cluster.local
  port: 5433
  user: moltherm
  password: secret
  db_name: thermo
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/reactions", cfg.Workflow.BaseDir)
	assert.Equal(t, "r_", cfg.Workflow.ReactantPrefix)
	assert.Equal(t, "p_", cfg.Workflow.ProductPrefix)
	assert.Equal(t, "results.txt", cfg.Workflow.ReportFilename)

	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, "db.cluster.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "thermo", cfg.Database.DBName)
	// Defaults fill the unset pool fields.
	assert.Equal(t, DefaultDBMaxConns, cfg.Database.MaxConns)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MinimalFileGetsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
workflow:
  base_dir: /tmp/rxn
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultReactantPrefix, cfg.Workflow.ReactantPrefix)
	assert.Equal(t, DefaultProductPrefix, cfg.Workflow.ProductPrefix)
	assert.Equal(t, DefaultReportFilename, cfg.Workflow.ReportFilename)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)

	// No host ⇒ no store configured; that is not a validation failure.
	assert.False(t, cfg.Database.Configured())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "identical prefixes",
			yaml: "workflow:\n  reactant_prefix: x_\n  product_prefix: x_\n",
		},
		{
			name: "database host without user",
			yaml: "database:\n  host: localhost\n  user: \"\"\n",
		},
		{
			name: "bad log level",
			yaml: "log:\n  level: verbose\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MOLTHERM_WORKFLOW_BASE_DIR", "/scratch/reactions")
	t.Setenv("MOLTHERM_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/scratch/reactions", cfg.Workflow.BaseDir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultReactantPrefix, cfg.Workflow.ReactantPrefix)
}

func TestValidate_DatabasePortRange(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.Host = "localhost"
	cfg.Database.User = "u"
	cfg.Database.Port = 70000

	assert.Error(t, cfg.Validate())
}
