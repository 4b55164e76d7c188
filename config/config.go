package config

import (
	"os"
	"time"
)

// AllowedExtensions lists the script types accepted for upload and analysis.
var AllowedExtensions = map[string]bool{
	"py":  true,
	"sql": true,
}

// Config holds the filesystem layout and runtime limits for the service.
type Config struct {
	DBPath        string
	UploadDir     string
	ReportsDir    string
	SignupLogPath string
	ListenAddr    string
	PythonBin     string
	ExecTimeout   time.Duration
}

// Default returns the baseline configuration with environment overrides
// applied. CLI flags may override individual fields afterwards.
func Default() Config {
	return Config{
		DBPath:        envOr("SCRIPTBENCH_DB_PATH", "db/scriptbench.db"),
		UploadDir:     envOr("SCRIPTBENCH_UPLOAD_DIR", "uploads"),
		ReportsDir:    envOr("SCRIPTBENCH_REPORTS_DIR", "reports"),
		SignupLogPath: envOr("SCRIPTBENCH_SIGNUP_LOG", "user_signups.xlsx"),
		ListenAddr:    envOr("SCRIPTBENCH_ADDR", ":8080"),
		PythonBin:     envOr("SCRIPTBENCH_PYTHON", "python3"),
		ExecTimeout:   5 * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
