package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/quorum/pkg/log"
)

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	// StorageMemory keeps nothing between runs.
	StorageMemory = "memory"
)

const PreferencesFileName = "preferences.yaml"

type AppConfig struct {
	RuntimePath string `env:"QUORUM_RUNTIME_PATH" envDefault:".quorum"`

	// Remote collaborator
	APIBaseURL   string        `env:"QUORUM_API_BASE_URL" envDefault:"http://127.0.0.1:5000"`
	APITimeout   time.Duration `env:"QUORUM_API_TIMEOUT" envDefault:"60s"`
	UserID       string        `env:"QUORUM_USER_ID"`
	HistoryLimit int           `env:"QUORUM_HISTORY_LIMIT" envDefault:"20"`

	// Local persistence
	Storage string `env:"QUORUM_STORAGE" envDefault:"sqlite"`

	// Labels for the three provider slots, in slot order
	ProviderLabels []string `env:"QUORUM_PROVIDER_LABELS" envSeparator:"," envDefault:"Provider A,Provider B,Provider C"`

	// Transport Flags
	EnableTelegram bool `env:"QUORUM_ENABLE_TELEGRAM" envDefault:"false"`
}

// ParseAppConfig reads AppConfig from the environment and resolves the
// runtime path against the home directory.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)

	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", c.Storage)
	}
	if len(c.ProviderLabels) != 3 {
		return nil, fmt.Errorf("QUORUM_PROVIDER_LABELS needs exactly 3 labels, got %d", len(c.ProviderLabels))
	}
	if c.HistoryLimit <= 0 {
		return nil, fmt.Errorf("QUORUM_HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "quorum.db")
}

func (c AppConfig) GetStoragePath() string {
	return filepath.Join(c.RuntimePath, "store")
}

func (c AppConfig) GetPreferencesPath() string {
	return filepath.Join(c.RuntimePath, PreferencesFileName)
}

func (c AppConfig) GetUserID() string {
	return c.UserID
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) GetAPIBaseURL() string {
	return c.APIBaseURL
}

func (c AppConfig) GetAPITimeout() time.Duration {
	return c.APITimeout
}

func (c AppConfig) GetHistoryLimit() int {
	return c.HistoryLimit
}
