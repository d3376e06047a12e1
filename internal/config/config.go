package config

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	SigningKey     []byte
	AllowedOrigins []string
	HistoryLimit   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost:8000")
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.signingSecret", "")
	v.SetDefault("server.allowedOrigins", []string{})
	v.SetDefault("chat.historyLimit", 50)
}

// Load reads configuration from the environment (CHATWIRE_ prefix) with
// defaults suitable for local development. An empty database DSN selects
// the in-memory store.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHATWIRE")
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range map[string]string{
		"server.addr":           "ADDR",
		"database.dsn":          "DSN",
		"auth.signingSecret":    "SIGNING_SECRET",
		"server.allowedOrigins": "ALLOWED_ORIGINS",
		"chat.historyLimit":     "HISTORY_LIMIT",
	} {
		if err := v.BindEnv(key, "CHATWIRE_"+env); err != nil {
			return nil, fmt.Errorf("bind env: %w", err)
		}
	}

	cfg := &Config{
		ServerAddr:     v.GetString("server.addr"),
		DatabaseDSN:    v.GetString("database.dsn"),
		AllowedOrigins: v.GetStringSlice("server.allowedOrigins"),
		HistoryLimit:   v.GetInt("chat.historyLimit"),
	}

	secret := v.GetString("auth.signingSecret")
	if secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	cfg.SigningKey = signingKey

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}
	return nil
}
