package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	HistoryDBPath string
	ResultsDir    string
	QueryTimeout  time.Duration
	Snowflake     SnowflakeConfig
	Analyst       AnalystConfig
}

type SnowflakeConfig struct {
	User      string
	Password  string
	Account   string
	Warehouse string
	Database  string
	Schema    string
}

// AnalystConfig configures the Cortex Analyst bridge. The bridge is optional:
// when Host is empty the chat endpoints report the service as unconfigured.
type AnalystConfig struct {
	Host         string
	SemanticView string
	Token        string
}

// SemanticViewFQN is the fully qualified name sent with every analyst request.
func (c Config) SemanticViewFQN() string {
	return fmt.Sprintf("%s.%s.%s", c.Snowflake.Database, c.Snowflake.Schema, c.Analyst.SemanticView)
}

func (c Config) AnalystConfigured() bool {
	return c.Analyst.Host != ""
}

// Load reads configuration from the environment once at process start. A
// local .env file is honored when present. Missing required warehouse
// settings fail fast rather than silently querying against defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "9090"),
		HistoryDBPath: getEnv("HISTORY_DB_PATH", "./data/badger"),
		ResultsDir:    getEnv("RESULTS_DIR", "./results"),
		QueryTimeout:  getEnvSeconds("QUERY_TIMEOUT_SECONDS", 60),
		Snowflake: SnowflakeConfig{
			User:      getEnv("SNOWFLAKE_USER", ""),
			Password:  getEnv("SNOWFLAKE_PASSWORD", ""),
			Account:   getEnv("SNOWFLAKE_ACCOUNT", ""),
			Warehouse: getEnv("SNOWFLAKE_WAREHOUSE", ""),
			Database:  getEnv("SNOWFLAKE_DATABASE", ""),
			Schema:    getEnv("SNOWFLAKE_SCHEMA", ""),
		},
		Analyst: AnalystConfig{
			Host:         getEnv("SNOWFLAKE_HOST", ""),
			SemanticView: getEnv("SEMANTIC_VIEW", ""),
			Token:        getEnv("ANALYST_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Snowflake,
		validation.Field(&c.Snowflake.User, validation.Required),
		validation.Field(&c.Snowflake.Password, validation.Required),
		validation.Field(&c.Snowflake.Account, validation.Required),
		validation.Field(&c.Snowflake.Warehouse, validation.Required),
		validation.Field(&c.Snowflake.Database, validation.Required),
		validation.Field(&c.Snowflake.Schema, validation.Required),
	); err != nil {
		return fmt.Errorf("snowflake: %w", err)
	}

	// Analyst settings are all-or-nothing: a host without a semantic view or
	// token would fail on the first chat turn.
	if c.AnalystConfigured() {
		if err := validation.ValidateStruct(&c.Analyst,
			validation.Field(&c.Analyst.SemanticView, validation.Required),
			validation.Field(&c.Analyst.Token, validation.Required),
		); err != nil {
			return fmt.Errorf("analyst: %w", err)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defaultValue) * time.Second
}
