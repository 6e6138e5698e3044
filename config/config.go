package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL      string
	RemoteRoot   string
	Username     string
	Password     string
	BackupHome   string
	BackupDir    string
	ManifestFile string
	LogDir       string
	Roots        []string
	Concurrency  int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	home := getEnv("BACKUP_HOME", "wa-backup")

	config := &Config{
		BaseURL:      getEnv("WEBDAV_URL", ""),
		RemoteRoot:   getEnv("WEBDAV_ROOT", "/resources"),
		Username:     getEnv("WEBDAV_USER", ""),
		Password:     getEnv("WEBDAV_PASSWORD", ""),
		BackupHome:   home,
		BackupDir:    getEnv("BACKUP_DIR", filepath.Join(home, "files")),
		ManifestFile: getEnv("MANIFEST_FILE", filepath.Join(home, "manifest.json")),
		LogDir:       getEnv("LOG_DIR", filepath.Join(home, "logs")),
		Roots:        splitRoots(getEnv("SYNC_ROOTS", "/Documents,/Pictures")),
		Concurrency:  getEnvInt("SYNC_CONCURRENCY", 1),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		slog.Warn("invalid integer value, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

// splitRoots parses a comma-separated list of remote root paths, trimming
// whitespace and ensuring each entry carries a leading slash.
func splitRoots(value string) []string {
	var roots []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "/") {
			part = "/" + part
		}
		part = strings.TrimRight(part, "/")
		if part == "" {
			part = "/"
		}
		roots = append(roots, part)
	}
	return roots
}
