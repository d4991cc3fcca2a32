// cmd/api/main.go
package main

import (
	"context"
	"os"

	"libranexus/internal/proxy"
	"libranexus/internal/platform/config"
	"libranexus/internal/platform/logging"
	"libranexus/internal/platform/server"
)

func main() {
	cfg := config.FromEnv("8080")
	logger := logging.New("api", cfg.LogLevel)

	h, err := proxy.New(proxy.Routes{
		"catalog":     getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
		"circulation": getEnv("CIRCULATION_SERVICE_URL", "http://localhost:8082"),
		"patrons":     getEnv("PATRON_SERVICE_URL", "http://localhost:8083"),
	}, logger)
	if err != nil {
		logger.Error("invalid upstream", "error", err)
		os.Exit(1)
	}

	if err := server.Run(context.Background(), server.New(":"+cfg.Port, h), logger); err != nil {
		logger.Error("api gateway stopped", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
