package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LOADOUT_CONFIG is set
//  3. env (prefix LOADOUT_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LOADOUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, Wrap("load config file", err)
		}
	}

	// Environment variables: LOADOUT_ADDR, LOADOUT_REDIS_ADDR, ...
	// Keys map to koanf tags with underscores preserved.
	envProvider := env.Provider("LOADOUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "loadout_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, Wrap("load env", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, Wrap("unmarshal config", err)
	}

	if cfg.Addr == "" {
		return nil, ErrEmptyAddr
	}
	if cfg.RateLimitRequests < 1 {
		return nil, ErrBadRateLimit
	}
	if cfg.RateLimitWindowMS < 1 {
		return nil, ErrBadRateLimit
	}
	if cfg.MaxResults < 1 {
		return nil, ErrBadMaxResults
	}
	return &cfg, nil
}
