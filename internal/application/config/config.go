package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/pkg/errors"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	AppName   = "seo-auditor"
	envFile   = `config.env`
	maxWorker = 64
)

type AppConfig struct {
	LogLevel    string
	DebugMode   bool
	MetricsHost string
	PprofHost   string

	PerPage         int
	RequestTimeout  time.Duration
	PaginationDelay time.Duration
	UserAgent       string
	Workers         int

	RedisURL string
	CacheTTL time.Duration

	DBDir     string
	OutputDir string
}

// NewAppConfig reads config.env, when present, and the process environment.
// Unset values fall back to defaults; set but malformed values are errors.
func NewAppConfig() (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, `failed to load `+envFile)
	}

	var errMsg []string
	cfg := AppConfig{
		LogLevel:    envString("APP_LOG_LEVEL", string(adaptors.Info)),
		MetricsHost: envString("HTTP_APP_METRICS_HOST", ":9090"),
		PprofHost:   envString("HTTP_APP_PPROF_HOST", ":6060"),
		UserAgent:   envString("SEO_USER_AGENT", "Mozilla/5.0 (compatible; SEO Analyzer/1.0)"),
		RedisURL:    envString("SEO_REDIS_URL", ""),
		DBDir:       envString("SEO_DB_DIR", filepath.Join(xdg.DataHome, AppName)),
		OutputDir:   envString("SEO_OUTPUT_DIR", "."),
	}

	collect := func(err error) {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}

	var err error
	cfg.DebugMode, err = envBool("APP_ENABLE_DEBUG", false)
	collect(err)
	cfg.PerPage, err = envInt("SEO_PER_PAGE", 50)
	collect(err)
	cfg.Workers, err = envInt("SEO_WORKERS", 1)
	collect(err)
	cfg.RequestTimeout, err = envDuration("SEO_REQUEST_TIMEOUT", 10*time.Second)
	collect(err)
	cfg.PaginationDelay, err = envDuration("SEO_PAGINATION_DELAY", 100*time.Millisecond)
	collect(err)
	cfg.CacheTTL, err = envDuration("SEO_CACHE_TTL", time.Hour)
	collect(err)

	errMsg = append(errMsg, validate(&cfg)...)
	if len(errMsg) != 0 {
		return nil, fmt.Errorf(`validation failed: %s`, strings.Join(errMsg, "\n"))
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) []string {
	var errMsg []string
	if !adaptors.LogLevel(cfg.LogLevel).Valid() {
		errMsg = append(errMsg, fmt.Sprintf(`log level %q is not one of trace, debug, info, warn, error`, cfg.LogLevel))
	}

	if cfg.MetricsHost == "" {
		errMsg = append(errMsg, `metrics host is empty`)
	}

	if cfg.PerPage < 1 || cfg.PerPage > 100 {
		errMsg = append(errMsg, `SEO_PER_PAGE must be between 1 and 100`)
	}

	if cfg.Workers < 1 || cfg.Workers > maxWorker {
		errMsg = append(errMsg, fmt.Sprintf(`SEO_WORKERS must be between 1 and %d`, maxWorker))
	}

	if cfg.RequestTimeout <= 0 {
		errMsg = append(errMsg, `SEO_REQUEST_TIMEOUT must be positive`)
	}

	if cfg.PaginationDelay < 0 {
		errMsg = append(errMsg, `SEO_PAGINATION_DELAY must not be negative`)
	}
	return errMsg
}

// EffectiveLogLevel is the level the logger should run at.
func (c *AppConfig) EffectiveLogLevel() string {
	if c.DebugMode {
		return string(adaptors.Debug)
	}
	return c.LogLevel
}

// envString treats a blank value the same as an unset one.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid duration format: %w", key, err)
	}
	return d, nil
}
