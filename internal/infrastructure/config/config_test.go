package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"HOSPOS_APP_NAME":                  os.Getenv("HOSPOS_APP_NAME"),
		"HOSPOS_APP_ENV":                   os.Getenv("HOSPOS_APP_ENV"),
		"HOSPOS_APP_PORT":                  os.Getenv("HOSPOS_APP_PORT"),
		"HOSPOS_DATABASE_HOST":             os.Getenv("HOSPOS_DATABASE_HOST"),
		"HOSPOS_DATABASE_PORT":             os.Getenv("HOSPOS_DATABASE_PORT"),
		"HOSPOS_DATABASE_USER":             os.Getenv("HOSPOS_DATABASE_USER"),
		"HOSPOS_DATABASE_PASSWORD":         os.Getenv("HOSPOS_DATABASE_PASSWORD"),
		"HOSPOS_DATABASE_DBNAME":           os.Getenv("HOSPOS_DATABASE_DBNAME"),
		"HOSPOS_DATABASE_SSLMODE":          os.Getenv("HOSPOS_DATABASE_SSLMODE"),
		"HOSPOS_DATABASE_MAX_OPEN_CONNS":   os.Getenv("HOSPOS_DATABASE_MAX_OPEN_CONNS"),
		"HOSPOS_DATABASE_MAX_IDLE_CONNS":   os.Getenv("HOSPOS_DATABASE_MAX_IDLE_CONNS"),
		"HOSPOS_POLICY_MANAGER_ASSIGNMENT": os.Getenv("HOSPOS_POLICY_MANAGER_ASSIGNMENT"),
		"HOSPOS_POLICY_COMPANY_DELETE":     os.Getenv("HOSPOS_POLICY_COMPANY_DELETE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "hospos-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "hospos", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "same_outlet", cfg.Policy.ManagerAssignment)
		assert.Equal(t, "restrict", cfg.Policy.CompanyDelete)
		assert.Equal(t, 3, cfg.Policy.ConflictRetries)
	})

	t.Run("loads values from environment variables with HOSPOS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_APP_NAME", "test-app")
		os.Setenv("HOSPOS_APP_ENV", "testing")
		os.Setenv("HOSPOS_APP_PORT", "9000")
		os.Setenv("HOSPOS_DATABASE_HOST", "testdb.local")
		os.Setenv("HOSPOS_DATABASE_PORT", "5433")
		os.Setenv("HOSPOS_DATABASE_USER", "testuser")
		os.Setenv("HOSPOS_DATABASE_PASSWORD", "testpass")
		os.Setenv("HOSPOS_DATABASE_DBNAME", "testdb")
		os.Setenv("HOSPOS_DATABASE_SSLMODE", "require")
		os.Setenv("HOSPOS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("HOSPOS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("HOSPOS_POLICY_MANAGER_ASSIGNMENT", "allow_cross_outlet")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "allow_cross_outlet", cfg.Policy.ManagerAssignment)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("HOSPOS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown manager assignment policy", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_POLICY_MANAGER_ASSIGNMENT", "anything_goes")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "policy.manager_assignment")
	})

	t.Run("rejects unknown company delete policy", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_POLICY_COMPANY_DELETE", "orphan")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "policy.company_delete")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"HOSPOS_APP_ENV":           os.Getenv("HOSPOS_APP_ENV"),
		"HOSPOS_DATABASE_PASSWORD": os.Getenv("HOSPOS_DATABASE_PASSWORD"),
		"HOSPOS_DATABASE_SSLMODE":  os.Getenv("HOSPOS_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_APP_ENV", "production")
		os.Setenv("HOSPOS_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_APP_ENV", "production")
		os.Setenv("HOSPOS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("HOSPOS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("HOSPOS_APP_ENV", "production")
		os.Setenv("HOSPOS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("HOSPOS_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}
