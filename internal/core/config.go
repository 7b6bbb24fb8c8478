package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetDatabasePath() string
	GetStoragePath() string
	GetPreferencesPath() string
	GetUserID() string
	IsTelegramSelected() bool
}

type RemoteConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetHistoryLimit() int
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}
