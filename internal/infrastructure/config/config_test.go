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
		"CIVIC_APP_NAME":                os.Getenv("CIVIC_APP_NAME"),
		"CIVIC_APP_ENV":                 os.Getenv("CIVIC_APP_ENV"),
		"CIVIC_APP_PORT":                os.Getenv("CIVIC_APP_PORT"),
		"CIVIC_DATABASE_HOST":           os.Getenv("CIVIC_DATABASE_HOST"),
		"CIVIC_DATABASE_PORT":           os.Getenv("CIVIC_DATABASE_PORT"),
		"CIVIC_DATABASE_USER":           os.Getenv("CIVIC_DATABASE_USER"),
		"CIVIC_DATABASE_PASSWORD":       os.Getenv("CIVIC_DATABASE_PASSWORD"),
		"CIVIC_DATABASE_DBNAME":         os.Getenv("CIVIC_DATABASE_DBNAME"),
		"CIVIC_DATABASE_MAX_OPEN_CONNS": os.Getenv("CIVIC_DATABASE_MAX_OPEN_CONNS"),
		"CIVIC_DATABASE_MAX_IDLE_CONNS": os.Getenv("CIVIC_DATABASE_MAX_IDLE_CONNS"),
		"CIVIC_FORMS_BASE_URL":          os.Getenv("CIVIC_FORMS_BASE_URL"),
		"CIVIC_MAIL_HOST":               os.Getenv("CIVIC_MAIL_HOST"),
		"CIVIC_JWT_SECRET":              os.Getenv("CIVIC_JWT_SECRET"),
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

		assert.Equal(t, "civicconnect-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "civicconnect", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 587, cfg.Mail.Port)
		assert.NotZero(t, cfg.Scheduler.ReconcileInterval)
		assert.NotZero(t, cfg.Scheduler.ResponseQueryTimeout)
	})

	t.Run("loads values from environment variables with CIVIC prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("CIVIC_APP_NAME", "test-app")
		os.Setenv("CIVIC_APP_PORT", "9000")
		os.Setenv("CIVIC_DATABASE_HOST", "testdb.local")
		os.Setenv("CIVIC_DATABASE_PORT", "5433")
		os.Setenv("CIVIC_FORMS_BASE_URL", "https://forms.test")
		os.Setenv("CIVIC_MAIL_HOST", "smtp.test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "https://forms.test", cfg.Forms.BaseURL)
		assert.Equal(t, "smtp.test", cfg.Mail.Host)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("CIVIC_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("CIVIC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("CIVIC_APP_ENV", "production")
		os.Setenv("CIVIC_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "civicconnect",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
