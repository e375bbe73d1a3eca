// Package config loads runtime configuration for the practice bot: the gate
// threshold and rule set, the model artifact path, persona, LLM provider
// settings, and the server/observability sections. Values come from
// practicebot-config.yaml ($HOME or the working directory) with
// PRACTICEBOT_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	cfgerrors "github.com/Pratyay-Mondal/tinder-practice-nlp/internal/errors"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/persona"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
)

// Defaults mirror the original research runs.
const (
	DefaultThreshold = 0.45
	DefaultModelPath = "models/safe_violation_clf_embed.yaml"
	DefaultHost      = "localhost"
	DefaultPort      = 8080
)

// ServerConfig configures the optional HTTP surface.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// ObservabilityConfig configures metrics and tracing. Both default to off;
// the serve command turns metrics on unless explicitly disabled.
type ObservabilityConfig struct {
	MetricsEnabled  bool
	TracingEnabled  bool
	TracingExporter string // otlp, zipkin
	OTLPEndpoint    string
	ZipkinEndpoint  string
	SampleRate      float64
}

// Config is the full runtime configuration.
type Config struct {
	Threshold float64
	Rules     map[string]string
	ModelPath string
	Persona   string
	Seed      int64
	LLM       llm.Config
	Server    ServerConfig
	Logging   LoggingConfig
	Obs       ObservabilityConfig
}

// Load reads configuration from the default search paths and environment. A
// missing config file is fine (defaults apply); an invalid threshold or rule
// set is not.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("practicebot-config")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile reads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PRACTICEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func load(v *viper.Viper) (*Config, error) {

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Threshold: v.GetFloat64("threshold"),
		Rules:     v.GetStringMapString("rules"),
		ModelPath: v.GetString("model_path"),
		Persona:   v.GetString("persona"),
		Seed:      v.GetInt64("seed"),
		LLM: llm.Config{
			Provider:    v.GetString("llm.provider"),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			Timeout:     v.GetInt("llm.timeout_seconds"),
			MaxRetries:  v.GetInt("llm.max_retries"),
			Temperature: v.GetFloat64("llm.temperature"),
			TopP:        v.GetFloat64("llm.top_p"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
		},
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Obs: ObservabilityConfig{
			MetricsEnabled:  v.GetBool("observability.metrics_enabled"),
			TracingEnabled:  v.GetBool("observability.tracing_enabled"),
			TracingExporter: v.GetString("observability.tracing_exporter"),
			OTLPEndpoint:    v.GetString("observability.otlp_endpoint"),
			ZipkinEndpoint:  v.GetString("observability.zipkin_endpoint"),
			SampleRate:      v.GetFloat64("observability.sample_rate"),
		},
	}

	if len(cfg.Rules) == 0 {
		cfg.Rules = rules.DefaultRuleSet()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("threshold", DefaultThreshold)
	v.SetDefault("model_path", DefaultModelPath)
	v.SetDefault("persona", persona.Default)
	v.SetDefault("seed", 0)
	v.SetDefault("llm.provider", "mock")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.max_tokens", 140)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("observability.metrics_enabled", false)
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.tracing_exporter", "otlp")
	v.SetDefault("observability.sample_rate", 1.0)
}

// Validate rejects configurations the gate must not run with. The threshold
// is never clamped; an out-of-range value is surfaced immediately.
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return &cfgerrors.InvalidConfigError{
			Field:  "threshold",
			Reason: fmt.Sprintf("%v is outside [0,1]", c.Threshold),
		}
	}
	if c.ModelPath == "" {
		return &cfgerrors.InvalidConfigError{Field: "model_path", Reason: "must not be empty"}
	}
	for name, pattern := range c.Rules {
		if strings.TrimSpace(name) == "" {
			return &cfgerrors.InvalidConfigError{Field: "rules", Reason: "rule with empty name"}
		}
		if strings.TrimSpace(pattern) == "" {
			return &cfgerrors.InvalidConfigError{Field: "rules." + name, Reason: "empty pattern"}
		}
	}
	return nil
}
