// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

type Config struct {
	Database       string
	DatabaseDriver string

	ImapHost      string
	ImapPort      int
	ImapTLS       bool
	ImapTLSVerify bool
	User          string
	Password      string
	Mailbox       string
	ArchiveFolder string
	Compress      bool

	PollIntervalMs      int
	BackoffInitialMs    int
	BackoffMaxMs        int
	Concurrency         int
	ExtractionTimeoutMs int
	DryRun              bool

	Extractor ExtractorConfig
	Smtp      SmtpConfig

	Loglevel *string
}

type ExtractorConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type SmtpConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

var drivers = map[string]bool{
	"sqlite3":  true,
	"sqlite":   true,
	"postgres": true,
}

// environment variable names, kept compatible with the .env files of the web application
var envBindings = map[string]string{
	"imaphost":          "IMAP_HOST",
	"imapport":          "IMAP_PORT",
	"imaptls":           "IMAP_TLS",
	"imaptlsverify":     "IMAP_TLS_REJECT_UNAUTHORIZED",
	"user":              "IMAP_USER",
	"password":          "IMAP_PASS",
	"mailbox":           "IMAP_MAILBOX",
	"pollintervalms":    "IMAP_POLL_INTERVAL_MS",
	"database":          "DATABASE_URL",
	"databasedriver":    "DATABASE_DRIVER",
	"extractor.baseurl": "OPENAI_BASE_URL",
	"extractor.apikey":  "OPENAI_API_KEY",
	"extractor.model":   "OPENAI_MODEL",
	"smtp.host":         "SMTP_HOST",
	"smtp.port":         "SMTP_PORT",
	"smtp.user":         "SMTP_USER",
	"smtp.password":     "SMTP_PASS",
	"smtp.from":         "EMAIL_FROM",
	"loglevel":          "LOG_LEVEL",
}

func defaults() *Config {
	return &Config{
		Database:            "rfpmail.db",
		DatabaseDriver:      "sqlite3",
		ImapPort:            993,
		ImapTLS:             true,
		ImapTLSVerify:       true,
		Mailbox:             "INBOX",
		PollIntervalMs:      30000,
		BackoffInitialMs:    1000,
		BackoffMaxMs:        30000,
		Concurrency:         1,
		ExtractionTimeoutMs: 60000,
		Extractor: ExtractorConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o",
		},
		Smtp: SmtpConfig{
			Port: 587,
		},
	}
}

// ReadConfig reads the toml file, if present, and applies environment overrides on top.
func ReadConfig(filename string) (*Config, error) {
	config := defaults()

	if len(filename) > 0 {
		_, err := os.Stat(filename)
		if err == nil {
			_, err = toml.DecodeFile(filename, config)
			if err != nil {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not stat config file: %w", err)
		}
	}

	err := applyEnv(config, viper.New())
	if err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnv(c *Config, v *viper.Viper) error {
	for key, env := range envBindings {
		err := v.BindEnv(key, env)
		if err != nil {
			return fmt.Errorf("could not bind %s: %w", env, err)
		}
	}

	setString := func(key string, field *string) {
		if v.IsSet(key) {
			*field = strings.TrimSpace(v.GetString(key))
		}
	}
	setInt := func(key string, field *int) {
		if v.IsSet(key) {
			*field = v.GetInt(key)
		}
	}
	setBool := func(key string, field *bool) {
		if v.IsSet(key) {
			*field = v.GetBool(key)
		}
	}

	setString("imaphost", &c.ImapHost)
	setInt("imapport", &c.ImapPort)
	setBool("imaptls", &c.ImapTLS)
	setBool("imaptlsverify", &c.ImapTLSVerify)
	setString("user", &c.User)
	setString("password", &c.Password)
	setString("mailbox", &c.Mailbox)
	setInt("pollintervalms", &c.PollIntervalMs)
	setString("database", &c.Database)
	setString("databasedriver", &c.DatabaseDriver)
	setString("extractor.baseurl", &c.Extractor.BaseURL)
	setString("extractor.apikey", &c.Extractor.APIKey)
	setString("extractor.model", &c.Extractor.Model)
	setString("smtp.host", &c.Smtp.Host)
	setInt("smtp.port", &c.Smtp.Port)
	setString("smtp.user", &c.Smtp.User)
	setString("smtp.password", &c.Smtp.Password)
	setString("smtp.from", &c.Smtp.From)

	if v.IsSet("loglevel") {
		level := v.GetString("loglevel")
		c.Loglevel = &level
	}

	return nil
}

// WorkerEnabled is false when no imap host is configured. That disables the ingestion
// worker and is not an error.
func (c *Config) WorkerEnabled() bool {
	return len(strings.TrimSpace(c.ImapHost)) > 0
}

func (c *Config) ImapAddress() string {
	return fmt.Sprintf("%s:%d", c.ImapHost, c.ImapPort)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c *Config) BackoffInitial() time.Duration {
	return time.Duration(c.BackoffInitialMs) * time.Millisecond
}

func (c *Config) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxMs) * time.Millisecond
}

func (c *Config) ExtractionTimeout() time.Duration {
	return time.Duration(c.ExtractionTimeoutMs) * time.Millisecond
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database must not be empty, set to a sqlite filename or a postgres connection string"); err != nil {
		return err
	}

	if !drivers[c.DatabaseDriver] {
		return fmt.Errorf("DatabaseDriver %q is not supported, use sqlite3, sqlite or postgres", c.DatabaseDriver)
	}

	if c.WorkerEnabled() {
		if err := validateNonEmptyStringField(c.User, "User must not be empty, set to username on the imap server"); err != nil {
			return err
		}

		if err := validateNonEmptyStringField(c.Password, "Password must not be empty, set to password of User on the imap server"); err != nil {
			return err
		}

		if err := validateNonEmptyStringField(c.Mailbox, "Mailbox must not be empty, set to the folder to watch"); err != nil {
			return err
		}

		if c.ImapPort <= 0 || c.ImapPort > 65535 {
			return fmt.Errorf("ImapPort %d is not a valid port", c.ImapPort)
		}
	}

	if c.PollIntervalMs <= 0 {
		return errors.New("PollIntervalMs must be positive")
	}

	if c.BackoffInitialMs <= 0 {
		return errors.New("BackoffInitialMs must be positive")
	}

	if c.BackoffMaxMs < c.BackoffInitialMs {
		return errors.New("BackoffMaxMs must not be smaller than BackoffInitialMs")
	}

	if c.Concurrency < 1 {
		return errors.New("Concurrency must be at least 1")
	}

	if c.ExtractionTimeoutMs <= 0 {
		return errors.New("ExtractionTimeoutMs must be positive")
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
