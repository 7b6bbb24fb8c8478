package config

import "os"

func IsDebug() bool {
	return os.Getenv("QUORUM_DEBUG") == "1"
}
