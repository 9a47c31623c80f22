// Package config provides functionality for managing configuration options
// for the relay server using command-line flags, an optional JSON config
// file, a .env file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvWebhookURL is the preferred variable holding the upstream webhook URL.
	EnvWebhookURL = "N8N_WEBHOOK_URL"
	// EnvPublicAPIURL is the fallback variable holding the upstream webhook URL.
	EnvPublicAPIURL = "NEXT_PUBLIC_API_URL"
	// EnvWebhookSecret holds the optional shared secret sent upstream.
	EnvWebhookSecret = "N8N_WEBHOOK_SECRET"

	// DefaultRelayTimeout bounds a single upstream call.
	DefaultRelayTimeout = 15 * time.Second
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string

	// WebhookURL is the upstream n8n webhook every action is relayed to.
	WebhookURL string

	// WebhookSecret is sent as the x-webhook-secret header when non-empty.
	WebhookSecret string

	// RelayTimeout bounds each upstream call.
	RelayTimeout time.Duration

	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// fileOptions mirrors the JSON config file layout.
type fileOptions struct {
	Address       string `json:"address"`
	WebhookURL    string `json:"webhook_url"`
	WebhookSecret string `json:"webhook_secret"`
	RelayTimeout  string `json:"relay_timeout"`
	LogLevel      string `json:"log_level"`
}

// Parse loads a .env file from the working directory if present, then parses
// the command-line flags and environment variables. It returns a pointer to
// the Options struct containing the parsed configuration values.
func Parse() (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

func parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	options := &Options{}
	fs.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.WebhookURL, "u", "", "upstream webhook URL")
	fs.DurationVar(&options.RelayTimeout, "t", DefaultRelayTimeout, "upstream call timeout")
	fs.StringVar(&options.LogLevel, "l", "info", "log level")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			if err := options.loadFile(options.Config); err != nil {
				return nil, err
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if url := getenv(EnvWebhookURL); url != "" {
		options.WebhookURL = url
	} else if url := getenv(EnvPublicAPIURL); url != "" {
		options.WebhookURL = url
	}
	if secret := getenv(EnvWebhookSecret); secret != "" {
		options.WebhookSecret = secret
	}
	if raw := getenv("RELAY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RELAY_TIMEOUT: %w", err)
		}
		options.RelayTimeout = d
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	if options.RelayTimeout <= 0 {
		return nil, fmt.Errorf("relay timeout must be positive, got %s", options.RelayTimeout)
	}

	return options, nil
}

func (o *Options) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	var f fileOptions
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}

	if f.Address != "" {
		o.Address = f.Address
	}
	if f.WebhookURL != "" {
		o.WebhookURL = f.WebhookURL
	}
	if f.WebhookSecret != "" {
		o.WebhookSecret = f.WebhookSecret
	}
	if f.LogLevel != "" {
		o.LogLevel = f.LogLevel
	}
	if f.RelayTimeout != "" {
		d, err := time.ParseDuration(f.RelayTimeout)
		if err != nil {
			return fmt.Errorf("invalid relay_timeout in config file: %w", err)
		}
		o.RelayTimeout = d
	}
	return nil
}
