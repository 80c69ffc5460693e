package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// AuthConfig selects the acting user and, optionally, their grants.
// Grants may be literal permissions or glob patterns such as "comercial:*:listar".
// When Grants is non-empty it replaces the user's stored permissions.
// Mode, when set to full, read-only or hidden, overrides every resolved mode.
type AuthConfig struct {
	User   string
	Grants []string
	Mode   string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CardBreakpoint int           `mapstructure:"card_breakpoint"`
	ConfirmWindow  time.Duration `mapstructure:"confirm_window"`
	NotifyTimeout  time.Duration `mapstructure:"notify_timeout"`
}

// LogConfig holds the slog level and destination file.
type LogConfig struct {
	Level string
	File  string
}

// Path returns the config file location: $PAINEL_CONFIG or ~/.config/painel/config.toml.
func Path() string {
	if p := os.Getenv("PAINEL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "painel", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix PAINEL_.
// A .env file in the working directory is applied first without clobbering the
// real environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "painel", "painel.db"))
	v.SetDefault("auth.user", "admin")
	v.SetDefault("auth.grants", []string{})
	v.SetDefault("auth.mode", "")
	v.SetDefault("ui.card_breakpoint", 100)
	v.SetDefault("ui.confirm_window", 3*time.Second)
	v.SetDefault("ui.notify_timeout", 4*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "painel", "painel.log"))

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("PAINEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(Path()); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Auth.Grants = splitGrants(c.Auth.Grants)
	if c.UI.CardBreakpoint <= 0 {
		c.UI.CardBreakpoint = 100
	}
	return c, nil
}

// splitGrants accepts PAINEL_AUTH_GRANTS="a:b:listar, a:b:editar" as well as a toml array.
func splitGrants(in []string) []string {
	var out []string
	for _, g := range in {
		out = append(out, strings.FieldsFunc(g, func(r rune) bool { return r == ',' || r == ' ' })...)
	}
	return out
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("auth.user", cfg.Auth.User)
	v.Set("auth.grants", cfg.Auth.Grants)
	v.Set("auth.mode", cfg.Auth.Mode)
	v.Set("ui.card_breakpoint", cfg.UI.CardBreakpoint)
	v.Set("ui.confirm_window", cfg.UI.ConfirmWindow.String())
	v.Set("ui.notify_timeout", cfg.UI.NotifyTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
