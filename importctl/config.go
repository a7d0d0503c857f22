package main

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"time"
)

type ImportctlConfig struct {
	BaseUrl     string
	PathPrefix  string
	HttpTimeout time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, isSet := os.LookupEnv(key); isSet && value != "" {
		return value
	}
	return defaultValue
}

/**
reads settings from the environment, loading the given .env file into it first if there is one.
a missing .env file is fine; the environment alone is enough
*/
func LoadConfig(envFilePath string) (*ImportctlConfig, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	timeout, timeoutErr := time.ParseDuration(getEnv("GAMESYNC_HTTP_TIMEOUT", "30s"))
	if timeoutErr != nil {
		return nil, fmt.Errorf("GAMESYNC_HTTP_TIMEOUT is not a valid duration: %w", timeoutErr)
	}

	return &ImportctlConfig{
		BaseUrl:     getEnv("GAMESYNC_BASE_URL", "http://localhost:9000"),
		PathPrefix:  getEnv("GAMESYNC_PATH_PREFIX", "/games"),
		HttpTimeout: timeout,
	}, nil
}
