package config

import (
	"os"
	"strings"

	"github.com/Zhima-Mochi/minishop-catalog/internal/pkg/logging"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	ServiceName string
	Env         string
	LogLevel    string
	LogOutputs  []string
	LogFile     string
	HTTPAddr    string
	// CatalogFile is a YAML catalog path; empty selects the built-in catalog.
	CatalogFile string
}

func FromEnv() Settings {
	return Settings{
		ServiceName: getenvDefault("SERVICE_NAME", "minishop-catalog"),
		Env:         getenvDefault("ENV", "dev"),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		LogOutputs:  splitList(getenvDefault("LOG_OUTPUT", "stderr")),
		LogFile:     os.Getenv("LOG_FILE"),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		CatalogFile: os.Getenv("CATALOG_FILE"),
	}
}

// Logging converts the settings into the logger configuration.
func (s Settings) Logging() logging.Config {
	return logging.Config{
		Service: s.ServiceName,
		Env:     s.Env,
		Level:   s.LogLevel,
		Outputs: s.LogOutputs,
		File:    s.LogFile,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
