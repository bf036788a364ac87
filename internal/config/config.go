// Package config loads and validates the tlumacz configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TLUMACZ_LLM_BACKEND.
const EnvPrefix = "TLUMACZ"

// Backend names accepted by the configuration.
const (
	BackendLLM    = "llm"
	BackendLingua = "lingua"
	BackendGoogle = "google"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Detection DetectionConfig `mapstructure:"detection"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Text      TextConfig      `mapstructure:"text"`
	Google    GoogleConfig    `mapstructure:"google"`
	TTS       TTSConfig       `mapstructure:"tts"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Request   RequestConfig   `mapstructure:"request"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LimitsConfig struct {
	Word    int `mapstructure:"word"`
	Text    int `mapstructure:"text"`
	History int `mapstructure:"history"`
}

type DetectionConfig struct {
	Backend       string `mapstructure:"backend"` // llm, lingua or google
	MinConfidence int    `mapstructure:"min_confidence"`
}

type LLMConfig struct {
	Backend string       `mapstructure:"backend"` // openai or ollama
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Ollama  OllamaConfig `mapstructure:"ollama"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type TextConfig struct {
	Backend string `mapstructure:"backend"` // llm or google
}

type GoogleConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Credentials string `mapstructure:"credentials"`
}

type TTSConfig struct {
	OpenAI TTSOpenAIConfig `mapstructure:"openai"`
}

type TTSOpenAIConfig struct {
	Model string `mapstructure:"model"`
	Voice string `mapstructure:"voice"`
}

type AudioConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type RetryConfig struct {
	Attempts int             `mapstructure:"attempts"`
	Delays   []time.Duration `mapstructure:"delays"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type RequestConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// secrets are read from the environment only, after .env is loaded.
type secrets struct {
	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	GoogleCredentials string `envconfig:"GOOGLE_CREDENTIALS"`
}

// Load reads the configuration from defaults, the config file and the
// environment. If configFile is empty, ./tlumacz.yaml and
// $HOME/.config/tlumacz/tlumacz.yaml are tried; a missing file is not an
// error. A .env file in the working directory is loaded first when present.
func Load(configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tlumacz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tlumacz"))
		}
	}

	// TLUMACZ_LLM_BACKEND, TLUMACZ_CACHE_TTL, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	var s secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("reading secrets: %w", err)
	}
	if s.OpenAIAPIKey != "" {
		cfg.LLM.OpenAI.APIKey = s.OpenAIAPIKey
	}
	if s.GoogleCredentials != "" {
		cfg.Google.Credentials = s.GoogleCredentials
	}

	// Secret fields may reference other variables, e.g. "${OPENAI_API_KEY}".
	cfg.LLM.OpenAI.APIKey = resolveEnvRef(cfg.LLM.OpenAI.APIKey)
	cfg.Google.Credentials = resolveEnvRef(cfg.Google.Credentials)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "./data/tlumacz.db")
	v.SetDefault("cache.ttl", 30*24*time.Hour)
	v.SetDefault("limits.word", 100)
	v.SetDefault("limits.text", 5000)
	v.SetDefault("limits.history", 1000)
	v.SetDefault("detection.backend", BackendLLM)
	v.SetDefault("detection.min_confidence", 80)
	v.SetDefault("llm.backend", BackendOpenAI)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.model", "llama3.1:8b")
	v.SetDefault("text.backend", BackendLLM)
	v.SetDefault("google.project_id", "")
	v.SetDefault("google.credentials", "")
	v.SetDefault("tts.openai.model", "gpt-4o-mini-tts")
	v.SetDefault("tts.openai.voice", "alloy")
	v.SetDefault("audio.command", "ffplay")
	v.SetDefault("audio.args", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-"})
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delays", []time.Duration{0, time.Second, 2 * time.Second})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("request.timeout", 60*time.Second)
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// resolveEnvRef expands a value of the form ${VAR}; other values are returned
// unchanged.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Database.Path == "" {
		add("database.path must be set")
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Limits.Word < 1 {
		add("limits.word must be positive, got %d", c.Limits.Word)
	}
	if c.Limits.Text < 1 {
		add("limits.text must be positive, got %d", c.Limits.Text)
	}
	if c.Limits.History < 1 {
		add("limits.history must be positive, got %d", c.Limits.History)
	}

	switch c.Detection.Backend {
	case BackendLLM, BackendLingua, BackendGoogle:
	default:
		add("unknown detection.backend %q (want llm, lingua or google)", c.Detection.Backend)
	}
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 100 {
		add("detection.min_confidence must be within 0-100, got %d", c.Detection.MinConfidence)
	}

	switch c.LLM.Backend {
	case BackendOpenAI:
		if c.LLM.OpenAI.APIKey == "" {
			add("llm.backend is openai but no API key is set (%s_OPENAI_API_KEY)", EnvPrefix)
		}
	case BackendOllama:
	default:
		add("unknown llm.backend %q (want openai or ollama)", c.LLM.Backend)
	}

	switch c.Text.Backend {
	case BackendLLM, BackendGoogle:
	default:
		add("unknown text.backend %q (want llm or google)", c.Text.Backend)
	}

	if c.Retry.Attempts < 1 {
		add("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	} else if len(c.Retry.Delays) < c.Retry.Attempts {
		add("retry.delays has %d entries, need one per attempt (%d)", len(c.Retry.Delays), c.Retry.Attempts)
	}
	for i, d := range c.Retry.Delays {
		if d < 0 {
			add("retry.delays[%d] must not be negative, got %s", i, d)
		}
	}

	if c.Request.Timeout <= 0 {
		add("request.timeout must be positive, got %s", c.Request.Timeout)
	}
	if c.Audio.Command == "" {
		add("audio.command must be set")
	}

	return errors.Join(errs...)
}

// UsesGoogle reports whether any capability is routed to Google Translate.
func (c *Config) UsesGoogle() bool {
	return c.Detection.Backend == BackendGoogle || c.Text.Backend == BackendGoogle
}
