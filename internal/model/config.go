package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// MailboxConfig holds the Exchange endpoints used to save, flag and send
// the composed message.
type MailboxConfig struct {
	// EWSURL is the Exchange Web Services endpoint
	// (e.g., https://outlook.office365.com/EWS/Exchange.asmx).
	EWSURL string `mapstructure:"ews_url" yaml:"ews_url"`

	// RestURL is the mailbox REST base without the version segment
	// (e.g., https://outlook.office.com/api).
	RestURL string `mapstructure:"rest_url" yaml:"rest_url"`

	// Username authenticates EWS requests. The password lives in the keyring.
	Username string `mapstructure:"username" yaml:"username"`

	// RequirementSet is the mailbox API level the host supports.
	// Programmatic send needs 1.15 or later.
	RequirementSet string `mapstructure:"requirement_set" yaml:"requirement_set"`

	// TimeoutSec bounds each HTTP call to the mailbox.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// IMAPConfig holds the settings for listing flagged sent messages.
type IMAPConfig struct {
	Host       string `mapstructure:"host" yaml:"host"`
	Port       string `mapstructure:"port" yaml:"port"`
	Username   string `mapstructure:"username" yaml:"username"`
	TLS        bool   `mapstructure:"tls" yaml:"tls"`
	SentFolder string `mapstructure:"sent_folder" yaml:"sent_folder"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Mailbox MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	IMAP    IMAPConfig    `mapstructure:"imap" yaml:"imap"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/followup/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "followup", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Mailbox: MailboxConfig{
			EWSURL:         "https://outlook.office365.com/EWS/Exchange.asmx",
			RestURL:        "https://outlook.office.com/api",
			RequirementSet: "1.15",
			TimeoutSec:     30,
		},
		IMAP: IMAPConfig{
			Host:       "outlook.office365.com",
			Port:       "993",
			TLS:        true,
			SentFolder: "Sent Items",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	defaults := defaultAppConfig()
	v.SetDefault("mailbox.ews_url", defaults.Mailbox.EWSURL)
	v.SetDefault("mailbox.rest_url", defaults.Mailbox.RestURL)
	v.SetDefault("mailbox.requirement_set", defaults.Mailbox.RequirementSet)
	v.SetDefault("mailbox.timeout_sec", defaults.Mailbox.TimeoutSec)
	v.SetDefault("imap.host", defaults.IMAP.Host)
	v.SetDefault("imap.port", defaults.IMAP.Port)
	v.SetDefault("imap.tls", defaults.IMAP.TLS)
	v.SetDefault("imap.sent_folder", defaults.IMAP.SentFolder)
	v.SetDefault("log.level", defaults.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Mailbox.TimeoutSec <= 0 {
		cfg.Mailbox.TimeoutSec = defaults.Mailbox.TimeoutSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mailbox", cfg.Mailbox)
	v.Set("imap", cfg.IMAP)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
