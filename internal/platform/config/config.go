package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures process-wide configuration. It is built once at startup and
// passed by value into constructors; nothing reads the environment after Load.
type Config struct {
	Addr           string
	SecretKey      string
	TokenAlgorithm string
	AccessTokenTTL time.Duration
	DatabaseURL    string
}

const (
	defaultAddr      = ":8080"
	defaultAlgorithm = "HS256"
	defaultTTLMins   = 30
)

// Load builds a Config from environment variables so main stays lean.
//
// SECRET_KEY is required: running with token validation broken is the one
// fatal misconfiguration, so startup fails instead.
func Load() (Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = defaultAddr
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return Config{}, fmt.Errorf("SECRET_KEY is required")
	}

	algorithm := os.Getenv("TOKEN_ALGORITHM")
	if algorithm == "" {
		algorithm = defaultAlgorithm
	}

	ttlMins := defaultTTLMins
	if raw := os.Getenv("ACCESS_TOKEN_TTL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL_MINUTES %q", raw)
		}
		ttlMins = parsed
	}

	return Config{
		Addr:           addr,
		SecretKey:      secret,
		TokenAlgorithm: algorithm,
		AccessTokenTTL: time.Duration(ttlMins) * time.Minute,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}, nil
}
