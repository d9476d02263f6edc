// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	sheetID := cfg.Spreadsheet.SpreadsheetID
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Spreadsheet   SpreadsheetConfig   `yaml:"spreadsheet"`
	OCR           OCRConfig           `yaml:"ocr"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	HistoryPort    int      `yaml:"history_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Spreadsheet backends
const (
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"
)

// SpreadsheetConfig selects where submitted expenses are written
type SpreadsheetConfig struct {
	Backend         string `yaml:"backend"` // BackendGoogle or BackendXLSX
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file"`
	XLSXPath        string `yaml:"xlsx_path"`
}

// OCRConfig holds receipt scanning settings
type OCRConfig struct {
	Binary       string `yaml:"binary"`
	Language     string `yaml:"language"`
	OEM          int    `yaml:"oem"`
	PSM          int    `yaml:"psm"`
	UploadDir    string `yaml:"upload_dir"`
	FallbackText string `yaml:"fallback_text"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "maven", "json" or "tint"
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SPREADSHEET_ID})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			HistoryPort:    8081,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			DatabasePath: "ration_form.db",
		},
		Spreadsheet: SpreadsheetConfig{
			Backend:         BackendXLSX,
			Range:           "Form Responses",
			CredentialsFile: "credentials.json",
			XLSXPath:        "expenses.xlsx",
		},
		OCR: OCRConfig{
			Binary:    "tesseract",
			Language:  "eng",
			OEM:       1,
			PSM:       3,
			UploadDir: "uploads",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "maven",
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	d := Defaults()
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("PORT", d.Server.Port),
			HistoryPort:    getEnvInt("HISTORY_PORT", d.Server.HistoryPort),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", d.Server.AllowedOrigins),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RATION_DB_PATH", d.Storage.DatabasePath),
		},
		Spreadsheet: SpreadsheetConfig{
			Backend:         getEnv("SPREADSHEET_BACKEND", d.Spreadsheet.Backend),
			SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
			Range:           getEnv("SPREADSHEET_RANGE", d.Spreadsheet.Range),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", d.Spreadsheet.CredentialsFile),
			XLSXPath:        getEnv("SPREADSHEET_XLSX_PATH", d.Spreadsheet.XLSXPath),
		},
		OCR: OCRConfig{
			Binary:       getEnv("TESSERACT_BINARY", d.OCR.Binary),
			Language:     getEnv("OCR_LANGUAGE", d.OCR.Language),
			OEM:          getEnvInt("OCR_OEM", d.OCR.OEM),
			PSM:          getEnvInt("OCR_PSM", d.OCR.PSM),
			UploadDir:    getEnv("OCR_UPLOAD_DIR", d.OCR.UploadDir),
			FallbackText: os.Getenv("OCR_FALLBACK_TEXT"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", d.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", d.Observability.Logging.Format),
			},
			Metrics: MetricsConfig{
				Enabled: getEnv("METRICS_ENABLED", "true") == "true",
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvList splits a comma-separated environment variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
