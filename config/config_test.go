package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setWarehouseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SNOWFLAKE_USER", "analytics")
	t.Setenv("SNOWFLAKE_PASSWORD", "secret")
	t.Setenv("SNOWFLAKE_ACCOUNT", "org-acct")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "COMPUTE_WH")
	t.Setenv("SNOWFLAKE_DATABASE", "ANALYTICS")
	t.Setenv("SNOWFLAKE_SCHEMA", "PUBLIC")
}

func TestLoadDefaults(t *testing.T) {
	setWarehouseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "./data/badger", cfg.HistoryDBPath)
	assert.Equal(t, "./results", cfg.ResultsDir)
	assert.Equal(t, 60*time.Second, cfg.QueryTimeout)
	assert.False(t, cfg.AnalystConfigured())
}

func TestLoadRequiresWarehouseSettings(t *testing.T) {
	setWarehouseEnv(t)
	t.Setenv("SNOWFLAKE_ACCOUNT", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snowflake")
}

func TestLoadAnalystAllOrNothing(t *testing.T) {
	setWarehouseEnv(t)
	t.Setenv("SNOWFLAKE_HOST", "org-acct.snowflakecomputing.com")

	_, err := Load()
	require.Error(t, err, "a host without view and token must fail fast")
	assert.Contains(t, err.Error(), "analyst")

	t.Setenv("SEMANTIC_VIEW", "RETAIL_SEMANTIC_VIEW")
	t.Setenv("ANALYST_TOKEN", "tok-abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AnalystConfigured())
	assert.Equal(t, "ANALYTICS.PUBLIC.RETAIL_SEMANTIC_VIEW", cfg.SemanticViewFQN())
}

func TestLoadQueryTimeoutOverride(t *testing.T) {
	setWarehouseEnv(t)
	t.Setenv("QUERY_TIMEOUT_SECONDS", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.QueryTimeout)

	t.Setenv("QUERY_TIMEOUT_SECONDS", "not-a-number")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.QueryTimeout, "bad values fall back to the default")
}
