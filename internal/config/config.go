// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/calebmartin/seedwatch/internal/watch"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Watch   WatchConfig   `mapstructure:"watch"`
	Render  RenderConfig  `mapstructure:"render"`
	Extract ExtractConfig `mapstructure:"extract"`
	Email   EmailConfig   `mapstructure:"email"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// WatchConfig governs the polling core.
type WatchConfig struct {
	URL             string   `mapstructure:"url"`
	Items           []string `mapstructure:"items"`
	IntervalSeconds int      `mapstructure:"interval_seconds"`
	NotifyPolicy    string   `mapstructure:"notify_policy"`
	NameSuffix      string   `mapstructure:"name_suffix"`
	QuantityMarker  string   `mapstructure:"quantity_marker"`
}

// RenderConfig configures page acquisition.
type RenderConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	NavTimeoutSeconds int    `mapstructure:"nav_timeout_seconds"`
	WaitSelector      string `mapstructure:"wait_selector"`
	UserAgent         string `mapstructure:"user_agent"`
}

// ExtractConfig holds the markup-coupled selectors.
type ExtractConfig struct {
	ContainerSelector string `mapstructure:"container_selector"`
	NameSelector      string `mapstructure:"name_selector"`
	StatusSelector    string `mapstructure:"status_selector"`
}

// EmailConfig holds SMTP alert delivery settings.
type EmailConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
	Subject   string `mapstructure:"subject"`
}

// ServerConfig controls the liveness HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SEEDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("watch.url", "https://www.gamersberg.com/grow-a-garden/stock")
	v.SetDefault("watch.items", []string{
		"Beanstalk",
		"Burning Bud",
		"Giant Pinecone",
		"Sugar Apple",
		"Ember Lily",
	})
	v.SetDefault("watch.interval_seconds", 120)
	v.SetDefault("watch.notify_policy", string(watch.NotifyOncePerProcess))
	v.SetDefault("watch.name_suffix", " Seed")
	v.SetDefault("watch.quantity_marker", "Stock:")
	v.SetDefault("render.enabled", true)
	v.SetDefault("render.nav_timeout_seconds", 45)
	v.SetDefault("render.wait_selector", ".seed-item")
	v.SetDefault("render.user_agent", "seedwatch/0.1")
	v.SetDefault("extract.container_selector", ".seed-item")
	v.SetDefault("extract.name_selector", "h2")
	v.SetDefault("extract.status_selector", "p.text-green-500, p.text-red-500")
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 465)
	v.SetDefault("email.subject", "Gamersberg Stock Alert!")
	v.SetDefault("server.port", 10000)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Watch.URL == "" {
		return fmt.Errorf("watch.url must be set")
	}
	if len(c.Watch.Items) == 0 {
		return fmt.Errorf("watch.items must list at least one item")
	}
	if c.Watch.IntervalSeconds <= 0 {
		return fmt.Errorf("watch.interval_seconds must be > 0")
	}
	if _, err := watch.ParseNotifyPolicy(c.Watch.NotifyPolicy); err != nil {
		return fmt.Errorf("watch.notify_policy: %w", err)
	}
	if c.Render.NavTimeoutSeconds <= 0 {
		return fmt.Errorf("render.nav_timeout_seconds must be > 0")
	}
	if c.Render.Enabled && c.Render.WaitSelector == "" {
		return fmt.Errorf("render.wait_selector must be set when rendering is enabled")
	}
	if c.Extract.ContainerSelector == "" || c.Extract.NameSelector == "" || c.Extract.StatusSelector == "" {
		return fmt.Errorf("extract selectors must all be set")
	}
	if c.Email.Enabled {
		if c.Email.Sender == "" || c.Email.Password == "" || c.Email.Recipient == "" {
			return fmt.Errorf("email.sender, email.password, and email.recipient must be set when email is enabled")
		}
		if c.Email.Port <= 0 {
			return fmt.Errorf("email.port must be > 0")
		}
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// Interval returns the fixed wait between poll cycles.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Watch.IntervalSeconds) * time.Second
}

// NavTimeout returns the render budget for one page acquisition.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Render.NavTimeoutSeconds) * time.Second
}
