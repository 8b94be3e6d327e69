package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	envPrefix  = "CONTRIVIEW"
	configName = ".contriview"
	configType = "yaml"
)

type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Parser  ParserConfig  `mapstructure:"parser"`
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Tracker TrackerConfig `mapstructure:"tracker"`
	Log     LogConfig     `mapstructure:"log"`
}

type GitHubConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type ParserConfig struct {
	Element   string `mapstructure:"element"`
	DateAttr  string `mapstructure:"date_attr"`
	CountAttr string `mapstructure:"count_attr"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type TrackerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	AccountsFile string        `mapstructure:"accounts_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads defaults, the optional config file and CONTRIVIEW_* variables.
// With an empty path the file is looked up as .contriview.yaml in the working
// directory; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("github.base_url", fetcher.DefaultBaseURL)
	v.SetDefault("github.timeout", fetcher.DefaultTimeout)
	v.SetDefault("github.retry_max", fetcher.DefaultRetryMax)

	v.SetDefault("parser.element", contributions.DefaultElement)
	v.SetDefault("parser.date_attr", contributions.DefaultDateAttr)
	v.SetDefault("parser.count_attr", contributions.DefaultCountAttr)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.path", "contriview.db")

	v.SetDefault("tracker.interval", time.Hour)
	v.SetDefault("tracker.accounts_file", "")

	v.SetDefault("log.level", zerolog.LevelInfoValue)
}

func (c *Config) Validate() error {
	if c.GitHub.RetryMax < 0 {
		return fmt.Errorf("github.retry_max must not be negative")
	}
	if c.Tracker.Interval <= 0 {
		return fmt.Errorf("tracker.interval must be positive")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func (c *Config) FetcherSettings() fetcher.Settings {
	return fetcher.Settings{
		BaseURL:  c.GitHub.BaseURL,
		Timeout:  c.GitHub.Timeout,
		RetryMax: c.GitHub.RetryMax,
	}
}

func (c *Config) ParserOptions() contributions.ParserOptions {
	return contributions.ParserOptions{
		Element:   c.Parser.Element,
		DateAttr:  c.Parser.DateAttr,
		CountAttr: c.Parser.CountAttr,
	}
}

// Logger builds the process logger at the configured level.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
