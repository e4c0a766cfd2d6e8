package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	appNameVar     = "APP_NAME"
	serverURLVar   = "AUTH_SERVER"
	sessionFileVar = "SESSION_FILE"
	redisAddrVar   = "REDIS_ADDR"
	redisPwdVar    = "REDIS_PASSWORD"
	redisDBVar     = "REDIS_DB"
	sessionKeyVar  = "SESSION_KEY"
	logLevelVar    = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Auth Client")
}

// GetServerURL returns the base URL of the remote authentication service.
func (EnvVars) GetServerURL() string {
	return GetEnv(serverURLVar, "http://localhost:8000")
}

// GetSessionFile returns the path of the persisted session slot. Defaults to
// a dotfile under the user's home directory.
func (EnvVars) GetSessionFile() string {
	if path := os.Getenv(sessionFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".authcli-session.json"
	}
	return filepath.Join(home, ".authcli", "session.json")
}

// GetRedisAddr returns the Redis address for the shared session slot, empty
// when the file-backed slot should be used.
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv(redisPwdVar, "")
}

func (EnvVars) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv(redisDBVar, "0"))
	if err != nil {
		return 0
	}
	return db
}

// GetSessionKey returns the Redis key holding the session slot.
func (EnvVars) GetSessionKey() string {
	return GetEnv(sessionKeyVar, "authcli:session")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
