package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/psantana5/textwrap/internal/ratelimit"
	"github.com/psantana5/textwrap/internal/tracing"
	"github.com/psantana5/textwrap/pkg/hyphenation"
)

// EnvPrefix prefixes environment overrides, e.g. TEXTWRAP_WIDTH or
// TEXTWRAP_SERVER_ADDR.
const EnvPrefix = "TEXTWRAP"

// Splitter names accepted by the splitter setting.
const (
	SplitterNone       = "none"
	SplitterHyphen     = "hyphen"
	SplitterDictionary = "dictionary"
)

// Config is the complete textwrap configuration
type Config struct {
	// Wrapping
	Width            int    `mapstructure:"width" yaml:"width" json:"width"` // 0 means terminal width
	Language         string `mapstructure:"language" yaml:"language" json:"language"`
	PatternsDir      string `mapstructure:"patterns_dir" yaml:"patterns_dir" json:"patterns_dir"`
	Features         string `mapstructure:"features" yaml:"features" json:"features"`
	Splitter         string `mapstructure:"splitter" yaml:"splitter" json:"splitter"`
	BreakWords       bool   `mapstructure:"break_words" yaml:"break_words" json:"break_words"`
	InitialIndent    string `mapstructure:"initial_indent" yaml:"initial_indent" json:"initial_indent"`
	SubsequentIndent string `mapstructure:"subsequent_indent" yaml:"subsequent_indent" json:"subsequent_indent"`

	Log     LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	Server  ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json" json:"json"`
	File  string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig configures the HTTP wrap service
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // requests per second per client, 0 disables
	Burst           int           `mapstructure:"burst" yaml:"burst" json:"burst"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
	MaxWidth        int           `mapstructure:"max_width" yaml:"max_width" json:"max_width"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	APIKeyHashes    []string      `mapstructure:"api_key_hashes" yaml:"api_key_hashes" json:"api_key_hashes"` // bcrypt, empty disables auth
	TLSCert         string        `mapstructure:"tls_cert" yaml:"tls_cert" json:"tls_cert"`
	TLSKey          string        `mapstructure:"tls_key" yaml:"tls_key" json:"tls_key"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies" yaml:"trusted_proxies" json:"trusted_proxies"` // IPs or CIDRs allowed to set X-Forwarded-For
}

// SetDefaults registers every key with its default so environment
// overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("width", 80)
	v.SetDefault("language", string(hyphenation.EnglishUS))
	v.SetDefault("patterns_dir", "")
	v.SetDefault("features", "")
	v.SetDefault("splitter", SplitterHyphen)
	v.SetDefault("break_words", true)
	v.SetDefault("initial_indent", "")
	v.SetDefault("subsequent_indent", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.max_width", 1000)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.api_key_hashes", []string{})
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "textwrap")
	v.SetDefault("tracing.insecure", true)
}

// Load reads the config file, environment and any flags already bound to
// v. When file is empty, $HOME/.textwrap/config.yaml is used if present.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".textwrap"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("invalid width %d: must be 0 (terminal) or positive", c.Width)
	}
	switch c.Splitter {
	case SplitterNone, SplitterHyphen, SplitterDictionary:
	default:
		return fmt.Errorf("invalid splitter %q: want none, hyphen or dictionary", c.Splitter)
	}
	if _, err := hyphenation.ParseLanguage(c.Language); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("invalid rate limit %v/%d", c.Server.RateLimit, c.Server.Burst)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("invalid server burst %d: must be at least 1 when rate_limit is set", c.Server.Burst)
	}
	if _, err := ratelimit.ParseTrustedProxies(c.Server.TrustedProxies); err != nil {
		return err
	}
	if c.Server.MaxWidth <= 0 {
		return fmt.Errorf("invalid server max_width %d", c.Server.MaxWidth)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("tracing.endpoint is required when tracing is enabled")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server tls_cert and tls_key must be set together")
	}
	return nil
}

// LanguageCode returns the validated language.
func (c *Config) LanguageCode() hyphenation.Language {
	lang, err := hyphenation.ParseLanguage(c.Language)
	if err != nil {
		return hyphenation.EnglishUS
	}
	return lang
}

// Example configuration as a string
const ExampleConfig = `# textwrap configuration
# Default location: $HOME/.textwrap/config.yaml
# Every key can be overridden with TEXTWRAP_<KEY>, e.g. TEXTWRAP_SERVER_ADDR.

# Line width in columns (0 = terminal width)
width: 80

# Hyphenation language and an optional directory of hyph-<lang>.pat.txt files
language: en-us
patterns_dir: ""

# Optional capabilities, comma separated (e.g. "hyphenation")
features: ""

# How words are split: none, hyphen or dictionary
splitter: hyphen
break_words: true
initial_indent: ""
subsequent_indent: ""

log:
  level: info
  json: false
  file: ""

server:
  addr: ":8080"
  rate_limit: 20
  burst: 40
  max_body_bytes: 1048576
  max_width: 1000
  shutdown_timeout: 10s
  # bcrypt hashes from "textwrap keygen"; empty disables authentication
  api_key_hashes: []
  # serve HTTPS when both are set ("textwrap cert" writes a self-signed pair)
  tls_cert: ""
  tls_key: ""
  # proxies whose X-Forwarded-For is used to identify clients (IPs or CIDRs)
  trusted_proxies: []

# OpenTelemetry traces of the wrap API, exported over OTLP/HTTP
tracing:
  enabled: false
  endpoint: localhost:4318
  service_name: textwrap
  insecure: true
`
