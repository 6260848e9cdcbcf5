package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"finscore/internal/logging"
	"finscore/internal/scoring"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Scoring  scoring.Params `mapstructure:"scoring"`
	Database DatabaseConfig `mapstructure:"database"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// WatchConfig governs the periodic re-scoring loop.
type WatchConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	WindowDays   int           `mapstructure:"window_days"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
	// RetentionDays prunes stored transactions older than this many days on
	// each tick. Zero disables pruning.
	RetentionDays int `mapstructure:"retention_days"`
}

// NotifyConfig defines decision notification routing.
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// BelowScore additionally notifies any result scoring under this value;
	// declines always notify.
	BelowScore int            `mapstructure:"below_score"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 通知参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FINSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "finscore")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	p := scoring.DefaultParams()
	v.SetDefault("scoring.weights.avg_daily_balance", p.Weights.AvgDailyBalance)
	v.SetDefault("scoring.weights.income_regularity", p.Weights.IncomeRegularity)
	v.SetDefault("scoring.weights.night_ratio", p.Weights.NightRatio)
	v.SetDefault("scoring.weights.airtime_regularity", p.Weights.AirtimeRegularity)
	v.SetDefault("scoring.weights.rounded_ratio", p.Weights.RoundedRatio)
	v.SetDefault("scoring.weights.low_balance_freq", p.Weights.LowBalanceFreq)
	v.SetDefault("scoring.weights.txn_frequency", p.Weights.TxnFrequency)

	v.SetDefault("scoring.normalize.night_start_hour", p.Normalize.NightStartHour)
	v.SetDefault("scoring.normalize.night_end_hour", p.Normalize.NightEndHour)
	v.SetDefault("scoring.normalize.round_unit", p.Normalize.RoundUnit)
	v.SetDefault("scoring.normalize.low_balance_threshold", p.Normalize.LowBalanceThreshold)
	v.SetDefault("scoring.normalize.balance_ceiling", p.Normalize.BalanceCeiling)
	v.SetDefault("scoring.normalize.expected_txns_per_day", p.Normalize.ExpectedTxnsPerDay)
	v.SetDefault("scoring.normalize.airtime_target_ratio", p.Normalize.AirtimeTargetRatio)

	v.SetDefault("scoring.rules.min_avg_daily_balance", p.Rules.MinAvgDailyBalance)
	v.SetDefault("scoring.rules.min_regularity", p.Rules.MinRegularity)
	v.SetDefault("scoring.rules.max_night_ratio", p.Rules.MaxNightRatio)
	v.SetDefault("scoring.rules.min_airtime", p.Rules.MinAirtime)
	v.SetDefault("scoring.rules.max_rounded_ratio", p.Rules.MaxRoundedRatio)
	v.SetDefault("scoring.rules.max_low_balance_freq", p.Rules.MaxLowBalanceFreq)
	v.SetDefault("scoring.rules.min_txn_frequency", p.Rules.MinTxnFrequency)

	v.SetDefault("scoring.tiers.approve_score", p.Tiers.ApproveScore)
	v.SetDefault("scoring.tiers.conditional_score", p.Tiers.ConditionalScore)
	v.SetDefault("scoring.tiers.approve_ceiling", p.Tiers.ApproveCeiling)
	v.SetDefault("scoring.tiers.approve_rate_pct", p.Tiers.ApproveRatePct)
	v.SetDefault("scoring.tiers.conditional_ceiling", p.Tiers.ConditionalCeiling)
	v.SetDefault("scoring.tiers.conditional_rate_pct", p.Tiers.ConditionalRatePct)

	v.SetDefault("watch.interval", "1h")
	v.SetDefault("watch.window_days", 90)
	v.SetDefault("watch.startup_delay", "0s")
	v.SetDefault("watch.retention_days", 0)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.below_score", 0)
	v.SetDefault("notify.telegram.enabled", false)
	v.SetDefault("notify.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrations_path", "migrations")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Watch.WindowDays <= 0 {
		return fmt.Errorf("watch.window_days must be greater than zero")
	}
	if c.Watch.RetentionDays < 0 {
		return fmt.Errorf("watch.retention_days cannot be negative")
	}
	if c.Notify.BelowScore < 0 || c.Notify.BelowScore > 100 {
		return fmt.Errorf("notify.below_score must lie within 0..100")
	}
	if c.Notify.Telegram.Enabled {
		if c.Notify.Telegram.BotToken == "" {
			return fmt.Errorf("notify.telegram.bot_token 必须配置")
		}
		if c.Notify.Telegram.ChatID == "" {
			return fmt.Errorf("notify.telegram.chat_id 必须配置")
		}
	}
	return nil
}
