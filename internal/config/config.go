// Package config loads and validates the server and analysis configuration
// through Viper, from defaults, environment variables and an optional YAML
// file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/exome-prioritizer/internal/domain"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Data     DataConfig     `mapstructure:"data"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AnalysisConfig carries the pipeline options enumerated by the analysis
// contract.
type AnalysisConfig struct {
	ModeOfInheritance               string   `mapstructure:"mode_of_inheritance"`
	FrequencyThreshold              float64  `mapstructure:"frequency_threshold"`
	FailIfKnownVariant              bool     `mapstructure:"fail_if_known_variant"`
	QualityThreshold                float64  `mapstructure:"quality_threshold"`
	PathogenicityCutoff             float64  `mapstructure:"pathogenicity_cutoff"`
	PriorityScoreCutoff             float64  `mapstructure:"priority_score_cutoff"`
	Intervals                       []string `mapstructure:"intervals"`
	DownweightVariantCountThreshold int      `mapstructure:"downweight_variant_count_threshold"`
	PhenixNormalizationFactor       float64  `mapstructure:"phenix_normalization_factor"`
	VariantWorkers                  int      `mapstructure:"variant_workers"`
}

// DataConfig configures the variant annotation providers.
type DataConfig struct {
	StorePath       string        `mapstructure:"store_path"`
	CacheSize       int           `mapstructure:"cache_size"`
	RemoteURL       string        `mapstructure:"remote_url"`
	RemoteTimeout   time.Duration `mapstructure:"remote_timeout"`
	RemoteRateLimit float64       `mapstructure:"remote_rate_limit"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Manager loads and serves the configuration.
type Manager struct {
	config *Config
}

// NewManager creates a configuration manager, reading defaults, environment
// variables (EXOME_ prefix) and an optional config.yaml.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/exome-prioritizer/")

	viper.SetEnvPrefix("EXOME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and environment variables apply.
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("analysis.mode_of_inheritance", "ANY")
	viper.SetDefault("analysis.frequency_threshold", 1.0)
	viper.SetDefault("analysis.fail_if_known_variant", false)
	viper.SetDefault("analysis.quality_threshold", 20.0)
	viper.SetDefault("analysis.pathogenicity_cutoff", 0.5)
	viper.SetDefault("analysis.priority_score_cutoff", 0.0)
	viper.SetDefault("analysis.downweight_variant_count_threshold", 5)
	viper.SetDefault("analysis.phenix_normalization_factor", 1.0)
	viper.SetDefault("analysis.variant_workers", 1)

	viper.SetDefault("data.store_path", "data/variants.db")
	viper.SetDefault("data.cache_size", 100000)
	viper.SetDefault("data.remote_url", "")
	viper.SetDefault("data.remote_timeout", "30s")
	viper.SetDefault("data.remote_rate_limit", 10.0)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Validate enforces the ranges of every analysis option.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	a := config.Analysis
	if !domain.ModeOfInheritance(a.ModeOfInheritance).IsValid() {
		return fmt.Errorf("invalid mode of inheritance: %s", a.ModeOfInheritance)
	}
	if a.FrequencyThreshold < 0 || a.FrequencyThreshold > 100 {
		return fmt.Errorf("frequency threshold must be in range [0, 100]: %f", a.FrequencyThreshold)
	}
	if a.QualityThreshold < 0 {
		return fmt.Errorf("quality threshold must not be negative: %f", a.QualityThreshold)
	}
	if a.PathogenicityCutoff < 0 || a.PathogenicityCutoff > 1 {
		return fmt.Errorf("pathogenicity cutoff must be in range [0, 1]: %f", a.PathogenicityCutoff)
	}
	if a.PriorityScoreCutoff < 0 || a.PriorityScoreCutoff > 1 {
		return fmt.Errorf("priority score cutoff must be in range [0, 1]: %f", a.PriorityScoreCutoff)
	}
	if a.DownweightVariantCountThreshold < 1 {
		return fmt.Errorf("downweight variant count threshold must be at least 1: %d", a.DownweightVariantCountThreshold)
	}
	if a.PhenixNormalizationFactor <= 0 {
		return fmt.Errorf("phenix normalization factor must be positive: %f", a.PhenixNormalizationFactor)
	}
	if a.VariantWorkers < 1 {
		return fmt.Errorf("variant workers must be at least 1: %d", a.VariantWorkers)
	}
	for _, interval := range a.Intervals {
		if _, _, _, err := ParseInterval(interval); err != nil {
			return err
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// ParseInterval parses a "chr1:2345-6789" interval specification. The "chr"
// prefix is optional; X, Y and MT map to their integer indices.
func ParseInterval(spec string) (chromosome, start, end int, err error) {
	chromPart, rangePart, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid interval %q: expected chr:start-end", spec)
	}
	chromPart = strings.TrimPrefix(strings.ToUpper(chromPart), "CHR")
	switch chromPart {
	case "X":
		chromosome = domain.ChrX
	case "Y":
		chromosome = domain.ChrY
	case "MT", "M":
		chromosome = domain.ChrMT
	default:
		chromosome, err = strconv.Atoi(chromPart)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid interval chromosome %q", chromPart)
		}
	}
	startPart, endPart, ok := strings.Cut(rangePart, "-")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid interval %q: expected chr:start-end", spec)
	}
	if start, err = strconv.Atoi(startPart); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid interval start %q", startPart)
	}
	if end, err = strconv.Atoi(endPart); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid interval end %q", endPart)
	}
	return chromosome, start, end, nil
}
