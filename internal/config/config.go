// Package config loads application configuration from environment variables
// and an optional JSON settings file. There is no ambient global: Load
// returns a Config value that is passed explicitly to every component.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment names recognized by the asset pipeline and the renderer.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// ListenConfig describes one listener. Port is kept as a string because it
// is only ever joined into an address.
type ListenConfig struct {
	Active bool
	Port   string
}

// TLSConfig extends ListenConfig with the key/cert pair for HTTPS.
type TLSConfig struct {
	Active   bool
	Port     string
	KeyFile  string
	CertFile string
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SEOEntry overrides the page metadata for one request path.
type SEOEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// HTMLMeta holds the default page metadata used when no SEO entry matches.
type HTMLMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// AssetSources lists the configured frontend source files, as web paths
// relative to the client directory (e.g. "/styles/main.style.scss").
type AssetSources struct {
	CSS []string `json:"css"`
	JS  []string `json:"js"`
}

// Config holds all runtime configuration values.
type Config struct {
	Env           string
	HTTP          ListenConfig
	HTTPS         TLSConfig
	MongoURI      string
	MongoDB       string
	SessionSecret string
	SessionMaxAge int
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	CDN           string
	ClientDir     string
	LayoutFile    string
	HTML          HTMLMeta
	SEO           map[string]SEOEntry
	Assets        AssetSources
	SMTP          SMTPConfig
	RedisAddr     string
	AMQPURL       string
	RateLimit     RateLimitConfig
}

// Load reads a .env file when present, then resolves the configuration from
// environment variables with development-friendly defaults. When
// SETTINGS_FILE is set, the referenced JSON file is layered on top.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env: envStr("APP_ENV", EnvDevelopment),
		HTTP: ListenConfig{
			Active: envBool("HTTP_ACTIVE", true),
			Port:   envStr("HTTP_PORT", "8080"),
		},
		HTTPS: TLSConfig{
			Active:   envBool("HTTPS_ACTIVE", false),
			Port:     envStr("HTTPS_PORT", "8443"),
			KeyFile:  os.Getenv("HTTPS_KEY"),
			CertFile: os.Getenv("HTTPS_CERT"),
		},
		MongoURI:      envStr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:       envStr("MONGODB_DB", "webstarter"),
		SessionSecret: envStr("SESSION_SECRET", "keyboard cat"),
		SessionMaxAge: envInt("SESSION_MAX_AGE", 86400*14),
		JWTSecret:     envStr("JWT_SECRET", "secret"),
		JWTTTL:        envDur("JWT_TTL", 2*time.Hour),
		BcryptCost:    envInt("BCRYPT_COST", 10),
		CDN:           os.Getenv("CDN_URL"),
		ClientDir:     envStr("CLIENT_DIR", "client"),
		LayoutFile:    os.Getenv("LAYOUT_FILE"),
		HTML: HTMLMeta{
			Title:       envStr("HTML_TITLE", "Web Starter"),
			Description: envStr("HTML_DESCRIPTION", "A web application starter kit"),
			Keywords:    envStr("HTML_KEYWORDS", "web,starter"),
		},
		SEO: map[string]SEOEntry{},
		SMTP: SMTPConfig{
			Host: envStr("SMTP_HOST", "localhost"),
			Port: envInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: envStr("SMTP_FROM", "no-reply@localhost"),
		},
		RedisAddr: os.Getenv("REDIS_ADDR"),
		AMQPURL:   os.Getenv("AMQP_URL"),
		RateLimit: LoadRateLimitConfig(),
	}

	if path := os.Getenv("SETTINGS_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
