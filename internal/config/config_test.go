// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			ClientURL:   "http://localhost:3000",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{URL: "postgres://localhost/app"},
		Redis:    RedisConfig{URL: "redis://localhost:6379"},
		JWT: JWTConfig{
			PrivateKeyPath:     "keys/private.pem",
			PublicKeyPath:      "keys/public.pem",
			SessionExpire:      168 * time.Hour,
			RememberMeExpire:   720 * time.Hour,
			RefreshTokenExpire: 720 * time.Hour,
		},
		Tokens: TokensConfig{
			VerificationExpire: 24 * time.Hour,
			ResetExpire:        time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowCredentials: true,
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validate(validConfig()))
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = ""
	assert.Error(t, validate(cfg))
}

func TestValidate_MissingKeyPaths(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.PrivateKeyPath = ""
	assert.Error(t, validate(cfg))

	cfg = validConfig()
	cfg.JWT.PublicKeyPath = ""
	assert.Error(t, validate(cfg))
}

func TestValidate_RememberMeShorterThanSession(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.RememberMeExpire = time.Hour
	assert.Error(t, validate(cfg))
}

func TestValidate_TokenLifetimes(t *testing.T) {
	cfg := validConfig()
	cfg.Tokens.ResetExpire = 0
	assert.Error(t, validate(cfg))
}

func TestValidate_CORSWildcardWithCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.CORS.AllowedOrigins = []string{"*"}
	assert.Error(t, validate(cfg))
}

func TestValidate_ProductionSMTPNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.SMTP.Enabled = true
	cfg.SMTP.Host = ""
	assert.Error(t, validate(cfg))
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	assert.Equal(t, "127.0.0.1:9000", s.Address())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
