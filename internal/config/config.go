package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	// Mail account. The password is an app password, not the account password.
	MailSender    string `mapstructure:"mail_sender"`
	MailPassword  string `mapstructure:"mail_password"`
	MailRecipient string `mapstructure:"mail_recipient"`
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`

	SourcesFile    string `mapstructure:"sources_file"`
	DeliverersFile string `mapstructure:"deliverers_file"`

	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	MaxHeadlines        int           `mapstructure:"max_headlines"`
	SendEmptyDigest     bool          `mapstructure:"send_empty_digest"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
// It fails before any network activity when the mail account is incomplete.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "morning-brew-digest")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("mail_sender", "")
	v.SetDefault("mail_password", "")
	v.SetDefault("mail_recipient", "")
	v.SetDefault("smtp_host", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("deliverers_file", "./configs/deliverers.yaml")
	v.SetDefault("fetch_timeout_seconds", 10)
	v.SetDefault("max_headlines", 5)
	v.SetDefault("send_empty_digest", false)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MailSender == "" {
		return nil, fmt.Errorf("mail_sender is required (set MAIL_SENDER)")
	}
	if cfg.MailPassword == "" {
		return nil, fmt.Errorf("mail_password is required (set MAIL_PASSWORD)")
	}
	if cfg.MailRecipient == "" {
		return nil, fmt.Errorf("mail_recipient is required (set MAIL_RECIPIENT)")
	}
	if cfg.SMTPPort <= 0 {
		return nil, fmt.Errorf("invalid smtp_port (must be positive)")
	}

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.MaxHeadlines <= 0 {
		return nil, fmt.Errorf("invalid max_headlines (must be positive)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
