package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a resolved configuration for operator mistakes that would
// otherwise surface as confusing runtime failures.
func Validate(cfg AppConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.ListenAddr) == "" {
		errs = append(errs, errors.New("listen address must not be empty"))
	}

	if strings.TrimSpace(cfg.BridgeURL) == "" {
		errs = append(errs, errors.New("bridge URL must not be empty"))
	} else if u, err := url.Parse(cfg.BridgeURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("bridge URL %q must be http(s)", cfg.BridgeURL))
	}

	if cfg.BridgeTimeout <= 0 {
		errs = append(errs, errors.New("bridge timeout must be positive"))
	}

	if cfg.RateLimitEnabled && cfg.RateLimitRPM <= 0 {
		errs = append(errs, fmt.Errorf("rate limit rpm must be positive, got %d", cfg.RateLimitRPM))
	}

	switch cfg.TracingExporter {
	case "grpc", "http", "noop", "":
	default:
		errs = append(errs, fmt.Errorf("tracing exporter %q must be grpc, http or noop", cfg.TracingExporter))
	}
	if cfg.SamplingRate < 0 || cfg.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing sampling rate %v must be within [0,1]", cfg.SamplingRate))
	}

	if cfg.HistoryEnabled && strings.TrimSpace(cfg.HistoryPath) == "" {
		errs = append(errs, errors.New("history enabled but no history path resolved"))
	}

	return errors.Join(errs...)
}
