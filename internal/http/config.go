package http

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"seo_auditor/internal/pkg/errors"

	"github.com/joho/godotenv"
)

const hostEnv = "HTTP_SERVER_HOST"

type HTTPServerConfig struct {
	Host     string
	Timeouts struct {
		Read         time.Duration
		ReadHeader   time.Duration
		Write        time.Duration
		Idle         time.Duration
		ShutdownWait time.Duration
	}
}

// NewHTTPServerConfig reads the API server settings. Every setting is required.
func NewHTTPServerConfig() (*HTTPServerConfig, error) {
	// Settings may come from the environment alone.
	if err := godotenv.Load(`config.env`); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, `failed to load config.env`)
	}

	cfg := &HTTPServerConfig{Host: os.Getenv(hostEnv)}
	var problems []string
	if cfg.Host == "" {
		problems = append(problems, hostEnv+" is required")
	}

	timeouts := []struct {
		env string
		dst *time.Duration
	}{
		{env: "HTTP_APP_READ_TIMEOUT_DURATION", dst: &cfg.Timeouts.Read},
		{env: "HTTP_APP_READ_HEADER_TIMEOUT_DURATION", dst: &cfg.Timeouts.ReadHeader},
		{env: "HTTP_APP_WRITE_TIMEOUT_DURATION", dst: &cfg.Timeouts.Write},
		{env: "HTTP_APP_IDLE_TIMEOUT_DURATION", dst: &cfg.Timeouts.Idle},
		{env: "HTTP_APP_SHUTDOWN_TIMEOUT_DURATION", dst: &cfg.Timeouts.ShutdownWait},
	}
	for _, t := range timeouts {
		d, err := requiredDuration(t.env)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		*t.dst = d
	}

	if len(problems) > 0 {
		return nil, errors.New("configuration validation failed:\n" + strings.Join(problems, "\n"))
	}
	return cfg, nil
}

func requiredDuration(env string) (time.Duration, error) {
	value := os.Getenv(env)
	if value == "" {
		return 0, fmt.Errorf("%s is required", env)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration format: %w", env, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", env)
	}
	return d, nil
}
