package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// ErrConfiguration marks a missing or invalid environment setting.
// Configuration errors are fatal at startup: the bot must not accept
// any chat input without a complete configuration.
var ErrConfiguration = errors.New("configuration error")

// Config holds all runtime settings. Everything comes from the
// environment; the six required variables have no defaults.
type Config struct {
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`

	// Document AI settings. ProcessorID is the text-extraction
	// processor, SummarizerProcessorID the summarization one.
	ProjectID             string `env:"PROJECT_ID,required,notEmpty"`
	Location              string `env:"LOCATION,required,notEmpty"`
	ProcessorID           string `env:"PROCESSOR_ID,required,notEmpty"`
	SummarizerProcessorID string `env:"SUMMARIZER_PROCESSOR_ID,required,notEmpty"`

	// CredentialsPath points to the Google service account JSON file.
	CredentialsPath string `env:"GOOGLE_CREDENTIALS,required,notEmpty"`

	WorkspacePath string `env:"WORKSPACE_PATH"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if _, err := os.Stat(cfg.CredentialsPath); err != nil {
		return nil, fmt.Errorf("%w: credentials file %s: %v", ErrConfiguration, cfg.CredentialsPath, err)
	}

	if cfg.WorkspacePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: resolving home directory: %v", ErrConfiguration, err)
		}
		cfg.WorkspacePath = filepath.Join(home, ".doclens")
	}
	if err := os.MkdirAll(cfg.WorkspacePath, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating workspace %s: %v", ErrConfiguration, cfg.WorkspacePath, err)
	}

	return &cfg, nil
}
