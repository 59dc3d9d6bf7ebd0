// Package config loads the application configuration with the precedence
// ENV > file > defaults and offers hot reloading of the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the fully resolved application configuration.
type AppConfig struct {
	ListenAddr string
	DataDir    string

	BridgeURL     string
	BridgeTimeout time.Duration

	APIToken string

	LogLevel   string
	LogService string

	HistoryEnabled bool
	HistoryPath    string

	ReportPath string

	RateLimitEnabled bool
	RateLimitRPM     int

	TracingEnabled  bool
	TracingExporter string // "grpc", "http" or "noop"
	TracingEndpoint string
	SamplingRate    float64

	Version string
}

// FileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from "zero" so file values only override what they actually set.
type FileConfig struct {
	Listen  *string `yaml:"listen"`
	DataDir *string `yaml:"dataDir"`
	Bridge  struct {
		URL     *string        `yaml:"url"`
		Timeout *time.Duration `yaml:"timeout"`
	} `yaml:"bridge"`
	APIToken *string `yaml:"apiToken"`
	Log      struct {
		Level *string `yaml:"level"`
	} `yaml:"log"`
	History struct {
		Enabled *bool   `yaml:"enabled"`
		Path    *string `yaml:"path"`
	} `yaml:"history"`
	Report struct {
		Path *string `yaml:"path"`
	} `yaml:"report"`
	RateLimit struct {
		Enabled *bool `yaml:"enabled"`
		RPM     *int  `yaml:"rpm"`
	} `yaml:"rateLimit"`
	Tracing struct {
		Enabled      *bool    `yaml:"enabled"`
		Exporter     *string  `yaml:"exporter"`
		Endpoint     *string  `yaml:"endpoint"`
		SamplingRate *float64 `yaml:"samplingRate"`
	} `yaml:"tracing"`
}

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Load resolves the configuration: defaults, then file, then environment.
// The result is validated before it is returned.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults(l.version)

	if l.configPath != "" {
		fileCfg, err := loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFile(&cfg, fileCfg)
	}

	applyEnv(&cfg)

	if cfg.HistoryEnabled && cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join(cfg.DataDir, "probes.db")
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = filepath.Join(cfg.DataDir, "capability-report.json")
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func defaults(version string) AppConfig {
	return AppConfig{
		ListenAddr:       ":8080",
		DataDir:          "/tmp/emeprobe",
		BridgeURL:        "http://127.0.0.1:9222",
		BridgeTimeout:    30 * time.Second,
		LogLevel:         "info",
		LogService:       "emeprobe",
		HistoryEnabled:   true,
		RateLimitEnabled: true,
		RateLimitRPM:     60,
		TracingExporter:  "noop",
		SamplingRate:     1.0,
		Version:          version,
	}
}

func loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &fc, nil
}

func mergeFile(cfg *AppConfig, fc *FileConfig) {
	setString(&cfg.ListenAddr, fc.Listen)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.BridgeURL, fc.Bridge.URL)
	if fc.Bridge.Timeout != nil {
		cfg.BridgeTimeout = *fc.Bridge.Timeout
	}
	setString(&cfg.APIToken, fc.APIToken)
	setString(&cfg.LogLevel, fc.Log.Level)
	setBool(&cfg.HistoryEnabled, fc.History.Enabled)
	setString(&cfg.HistoryPath, fc.History.Path)
	setString(&cfg.ReportPath, fc.Report.Path)
	setBool(&cfg.RateLimitEnabled, fc.RateLimit.Enabled)
	if fc.RateLimit.RPM != nil {
		cfg.RateLimitRPM = *fc.RateLimit.RPM
	}
	setBool(&cfg.TracingEnabled, fc.Tracing.Enabled)
	setString(&cfg.TracingExporter, fc.Tracing.Exporter)
	setString(&cfg.TracingEndpoint, fc.Tracing.Endpoint)
	if fc.Tracing.SamplingRate != nil {
		cfg.SamplingRate = *fc.Tracing.SamplingRate
	}
}

func applyEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString("EMEPROBE_LISTEN", cfg.ListenAddr)
	cfg.DataDir = ParseString("EMEPROBE_DATA", cfg.DataDir)
	cfg.BridgeURL = ParseString("EMEPROBE_BRIDGE_URL", cfg.BridgeURL)
	cfg.BridgeTimeout = ParseDuration("EMEPROBE_BRIDGE_TIMEOUT", cfg.BridgeTimeout)
	cfg.APIToken = ParseString("EMEPROBE_API_TOKEN", cfg.APIToken)
	cfg.LogLevel = ParseString("EMEPROBE_LOG_LEVEL", cfg.LogLevel)
	cfg.HistoryEnabled = ParseBool("EMEPROBE_HISTORY_ENABLED", cfg.HistoryEnabled)
	cfg.HistoryPath = ParseString("EMEPROBE_HISTORY_PATH", cfg.HistoryPath)
	cfg.ReportPath = ParseString("EMEPROBE_REPORT_PATH", cfg.ReportPath)
	cfg.RateLimitEnabled = ParseBool("EMEPROBE_RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRPM = ParseInt("EMEPROBE_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.TracingEnabled = ParseBool("EMEPROBE_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingExporter = ParseString("EMEPROBE_TRACING_EXPORTER", cfg.TracingExporter)
	cfg.TracingEndpoint = ParseString("EMEPROBE_TRACING_ENDPOINT", cfg.TracingEndpoint)
	cfg.SamplingRate = ParseFloat("EMEPROBE_TRACING_SAMPLING_RATE", cfg.SamplingRate)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
