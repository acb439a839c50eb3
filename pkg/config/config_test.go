package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturador-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.GeminiModel)
	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "test-key", cfg.AI.GeminiAPIKey)
}

// TestLoad_EnteroInvalido: un valor numérico malformado cae al default en
// lugar de convertirse silenciosamente en 0 (un timeout de 0 desactivaría el
// límite de la llamada externa).
func TestLoad_EnteroInvalido(t *testing.T) {
	t.Setenv("AI_TIMEOUT_SECONDS", "abc")
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "p@ss/word", DBName: "facturador", SSLMode: "disable",
	}
	dsn := db.ConnectionString()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword", "la contraseña va URL-encoded")

	db.DatabaseURL = "postgres://full/url"
	assert.Equal(t, "postgres://full/url", db.ConnectionString(), "DATABASE_URL tiene prioridad")
}
