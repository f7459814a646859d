package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the asset registry service.
type Config struct {
	Addr             string   `env:"ADDR,default=:8080"`
	DatabasePath     string   `env:"DATABASE_PATH,default=asset_registry.db"`
	OIDCDomain       string   `env:"OIDC_DOMAIN,required"`
	OIDCClientID     string   `env:"OIDC_CLIENT_ID,required"`
	OIDCClientSecret string   `env:"OIDC_CLIENT_SECRET,required"`
	OIDCCallbackURL  string   `env:"OIDC_CALLBACK_URL,required"`
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	UseSecureCookies bool     `env:"USE_HTTPS,default=false"`
	LogLevel         string   `env:"LOG_LEVEL,default=info"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
