package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	apiBaseURLVar = "API_BASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "CARES Portal")
}

// GetDataFolder is where the persisted session lives. A leading ~ is
// expanded by the storage layer.
func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "~/.cares")
}

// GetAPIBaseURL returns the base URL of the remote CARES API (e.g., "https://api.cares.example")
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, "http://localhost:8000"), "/")
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
