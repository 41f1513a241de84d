package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/TrussCut/internal/model"
)

// Environment variables that override the stored configuration.
const (
	EnvStockLength   = "TRUSSCUT_STOCK_LENGTH"
	EnvKerf          = "TRUSSCUT_KERF"
	EnvReportsDir    = "TRUSSCUT_REPORTS_DIR"
	EnvMergeStandard = "TRUSSCUT_MERGE_STANDARD"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.trusscut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".trusscut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	if config.RecentFiles == nil {
		config.RecentFiles = []string{}
	}
	return config, nil
}

// ApplyEnvOverrides returns cfg with any TRUSSCUT_* environment variables
// applied on top. Values that do not parse are ignored.
func ApplyEnvOverrides(cfg model.AppConfig) model.AppConfig {
	cfg.DefaultStockLength = getEnvFloat(EnvStockLength, cfg.DefaultStockLength)
	cfg.DefaultKerf = getEnvFloat(EnvKerf, cfg.DefaultKerf)
	cfg.ReportsDir = getEnv(EnvReportsDir, cfg.ReportsDir)
	cfg.MergeStandardProfile = getEnvBool(EnvMergeStandard, cfg.MergeStandardProfile)
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := model.ParseMeasure(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err == nil {
		return parsed
	}
	switch value {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	return fallback
}
