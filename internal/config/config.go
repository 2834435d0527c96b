// Package config loads runtime configuration from environment variables.
// Required values abort startup when missing; everything else carries a
// default so a bare environment still yields a runnable development server.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Types reflect how values are used:
// strings for addresses and secrets, durations for lifetimes.
type Config struct {
	Env           string        // application environment (dev/test/prod)
	Host          string        // interface to bind the TCP listener on
	Port          string        // port to bind the TCP listener on
	UsersFile     string        // path to the persisted users document
	RoomsFile     string        // path to the persisted rooms document
	JWTSecret     string        // secret used to sign session tokens
	TokenLifetime time.Duration // idle lifetime of a session token
	SweepInterval time.Duration // how often the session sweeper runs
	BcryptCost    int           // bcrypt cost for password hashing
	LogLevel      string        // zap level: debug/info/warn/error
	AMQPURL       string        // RabbitMQ URL; empty disables event publishing
}

// Load reads the configuration. APP_PORT and JWT_SECRET are required and
// cause a fatal log when unset; the rest default sensibly.
func Load() Config {
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Host:          envStr("APP_HOST", "0.0.0.0"),
		Port:          must("APP_PORT"),
		UsersFile:     envStr("USERS_FILE", "data/usersinfo.json"),
		RoomsFile:     envStr("ROOMS_FILE", "data/roomsinfo.json"),
		JWTSecret:     must("JWT_SECRET"),
		TokenLifetime: envDur("TOKEN_LIFETIME", 30*time.Minute),
		SweepInterval: envDur("TOKEN_SWEEP_INTERVAL", time.Minute),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		AMQPURL:       os.Getenv("RABBITMQ_URL"),
	}
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", k, v)
	}
	return n
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", k, v)
	}
	return dur
}
