package config

type Config interface {
	EnvConfig
}

type EnvConfig interface {
	GetAppName() string
	GetServerURL() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSessionKey() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
