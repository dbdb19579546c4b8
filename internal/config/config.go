package config

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	RouteConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetAPIBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	Routes
}

func New() Config {
	return mainConfig{}
}
