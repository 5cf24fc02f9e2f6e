package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"guildbot/colors"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// PlaceholderToken は config.yaml.example に書かれているダミーのトークンです。
const PlaceholderToken = "YOUR_DISCORD_BOT_TOKEN_HERE"

var ErrInvalid = errors.New("config: invalid configuration")

// Config はアプリケーションの設定を保持します。
type Config struct {
	Discord struct {
		Token   string `mapstructure:"token"`
		GuildID string `mapstructure:"guild_id"`
	} `mapstructure:"discord"`
	Client struct {
		Version string `mapstructure:"version"`
	} `mapstructure:"client"`
	Debug  bool              `mapstructure:"debug"`
	Colors map[string]string `mapstructure:"colors"`
	Rules  struct {
		Path      string        `mapstructure:"path"`
		Ephemeral bool          `mapstructure:"ephemeral"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"rules"`
	Log struct {
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`
	Storage struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"storage"`
	Status struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"status"`
	Usage struct {
		ReportSchedule string `mapstructure:"report_schedule"`
	} `mapstructure:"usage"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("client.version", "0")
	v.SetDefault("debug", false)
	for _, key := range colors.Keys {
		v.SetDefault("colors."+key, "")
	}
	v.SetDefault("rules.path", "")
	v.SetDefault("rules.ephemeral", false)
	v.SetDefault("rules.timeout", "5m")
	v.SetDefault("log.file", "bot.log")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("storage.path", "./bot.db")
	v.SetDefault("status.addr", ":8080")
	v.SetDefault("usage.report_schedule", "@hourly")
}

// Load は設定ファイルと環境変数から設定を読み込みます。
// path が空の場合はカレントディレクトリの config.yaml を探し、見つからなければ
// 環境変数とデフォルト値だけを使います。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("debug", "DEBUG_MODE"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read config.yaml: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Discord.Token == "" || c.Discord.Token == PlaceholderToken {
		return fmt.Errorf("%w: discord.token is not set", ErrInvalid)
	}
	if c.Rules.Timeout <= 0 {
		return fmt.Errorf("%w: rules.timeout must be positive", ErrInvalid)
	}
	if c.Usage.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.Usage.ReportSchedule); err != nil {
			return fmt.Errorf("%w: usage.report_schedule: %v", ErrInvalid, err)
		}
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Palette builds the color palette from the colors section.
func (c *Config) Palette() (*colors.Palette, error) {
	return colors.NewPalette(c.Colors)
}
