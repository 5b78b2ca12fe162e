package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// News provider
	NewsAPIKey   string `long:"news-api-key" env:"NEWS_API_KEY" description:"News provider API key" required:"true"`
	NewsAPIURL   string `long:"news-api-url" env:"NEWS_API_URL" default:"https://newsapi.org/v2/everything" description:"News provider search endpoint"`
	ProfilePath  string `long:"profile" env:"QUERY_PROFILE" description:"YAML file overriding the default news query profile"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Outbound request timeout in seconds"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl         string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"300" description:"Auto-refresh interval in seconds"`
	SessionTTL      int    `long:"session-ttl" env:"SESSION_TTL" default:"1800" description:"Idle session lifetime in seconds"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers"`
	RedisURL        string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the proxy response cache (in-memory when empty)"`
	ProxyCacheTTL   int    `long:"proxy-cache-ttl" env:"PROXY_CACHE_TTL" default:"60" description:"Proxy response cache lifetime in seconds (0 disables caching)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"PharmaPulse/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps and the 'today' window (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads an optional .env file, then flags and environment. It returns
// nil, nil when help was requested.
func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		NewsAPIKey:      raw.NewsAPIKey,
		NewsAPIURL:      raw.NewsAPIURL,
		ProfilePath:     raw.ProfilePath,
		FetchTimeout:    raw.FetchTimeout,
		Port:            raw.Port,
		BaseUrl:         raw.BaseUrl,
		RefreshInterval: raw.RefreshInterval,
		SessionTTL:      raw.SessionTTL,
		WorkerCount:     raw.WorkerCount,
		RedisURL:        raw.RedisURL,
		ProxyCacheTTL:   raw.ProxyCacheTTL,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %d", c.FetchTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %d", c.RefreshInterval)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %d", c.SessionTTL)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.ProxyCacheTTL < 0 {
		return fmt.Errorf("proxy cache ttl must not be negative, got %d", c.ProxyCacheTTL)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	slog.Debug("Timezone configured", "timezone", timezone)
	return nil
}
