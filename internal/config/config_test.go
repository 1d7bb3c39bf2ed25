package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: localhost
  port: 3306
  user: twin
  password: secret
  name: twinverify
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Equal(t, "CloudCompare", cfg.Bridges.AlignBin)
	require.InDelta(t, 0.5, cfg.Thresholds.DeviationTolerance, 1e-9)
	require.Equal(t, 50, cfg.Thresholds.Interactions)
	require.InDelta(t, 600.0, cfg.Thresholds.UpdateLimitSec, 1e-9)
	require.InDelta(t, 90.0, cfg.Thresholds.AccuracyThreshold, 1e-9)
	require.InDelta(t, 5.0, cfg.Thresholds.AccuracyTolerance, 1e-9)
	require.InDelta(t, 72.0, cfg.Thresholds.FPSTarget, 1e-9)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
bridges:
  alignBin: /opt/cc/CloudCompare
  engineURL: http://engine:9000
thresholds:
  interactions: 100
  updateLimitSec: 300
  accuracyThreshold: 95
apiKeys:
  site-a: key-a
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "/opt/cc/CloudCompare", cfg.Bridges.AlignBin)
	require.Equal(t, "http://engine:9000", cfg.Bridges.EngineURL)
	require.Equal(t, 100, cfg.Thresholds.Interactions)
	require.InDelta(t, 300.0, cfg.Thresholds.UpdateLimitSec, 1e-9)
	require.InDelta(t, 95.0, cfg.Thresholds.AccuracyThreshold, 1e-9)
	require.Equal(t, "key-a", cfg.APIKeys["site-a"])
}

func TestLoadOpenAIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeConfig(t, `
openai:
  apiKey: sk-file
  model: gpt-4o
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDSNHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = 3306
	cfg.Database.User = "twin"
	cfg.Database.Password = "secret"
	cfg.Database.Name = "twinverify"

	require.Equal(t,
		"twin:secret@tcp(db:3306)/twinverify?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.MySQLDSN())
	require.Equal(t,
		"host=db port=3306 user=twin password=secret dbname=twinverify sslmode=disable",
		cfg.PostgresDSN())
}
