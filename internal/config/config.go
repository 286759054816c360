// Package config содержит логику чтения конфигурации гостиничного сервиса.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Значения по умолчанию.
const (
	DefaultConfigFile     = "config.json"
	DefaultDataDir        = "data"
	DefaultBackupDir      = "backups"
	DefaultReportDir      = "reports"
	DefaultBackupInterval = 60
	DefaultLogLevel       = "INFO"
	DefaultLogFile        = "hotel.log"
)

// Config содержит параметры конфигурации гостиничного сервиса.
type Config struct {
	ConfigFile     string
	DataDir        string
	BackupDir      string
	ReportDir      string
	AutoBackup     bool
	BackupInterval int // минуты
	LogLevel       string
	LogToFile      bool
	LogFile        string
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		ConfigFile:     DefaultConfigFile,
		DataDir:        DefaultDataDir,
		BackupDir:      DefaultBackupDir,
		ReportDir:      DefaultReportDir,
		AutoBackup:     true,
		BackupInterval: DefaultBackupInterval,
		LogLevel:       DefaultLogLevel,
		LogToFile:      true,
		LogFile:        DefaultLogFile,
	}
}

// envConfig читается из переменных окружения. Пустое значение означает,
// что переменная не задана.
type envConfig struct {
	ConfigFile     string `env:"HOTEL_CONFIG"`
	DataDir        string `env:"HOTEL_DATA_DIR"`
	BackupDir      string `env:"HOTEL_BACKUP_DIR"`
	ReportDir      string `env:"HOTEL_REPORT_DIR"`
	AutoBackup     string `env:"HOTEL_AUTO_BACKUP"`
	BackupInterval string `env:"HOTEL_BACKUP_INTERVAL"`
	LogLevel       string `env:"HOTEL_LOG_LEVEL"`
	LogToFile      string `env:"HOTEL_LOG_TO_FILE"`
	LogFile        string `env:"HOTEL_LOG_FILE"`
}

// fileConfig повторяет структуру config.json.
type fileConfig struct {
	Database struct {
		DataDirectory   *string `json:"dataDirectory"`
		BackupDirectory *string `json:"backupDirectory"`
		ReportDirectory *string `json:"reportDirectory"`
		AutoBackup      *bool   `json:"autoBackup"`
		BackupInterval  *int    `json:"backupInterval"`
	} `json:"database"`
	Logging struct {
		Level     *string `json:"level"`
		LogToFile *bool   `json:"logToFile"`
		LogFile   *string `json:"logFile"`
	} `json:"logging"`
}

// Parse считывает конфигурацию.
//
// Приоритет источников: переменные окружения, флаги командной строки,
// файл config.json, значения по умолчанию. Файл .env, если он есть,
// дополняет окружение, не перезаписывая уже заданные переменные.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	var fc envConfig
	flag.StringVar(&fc.ConfigFile, "c", DefaultConfigFile, "path to config.json")
	flag.StringVar(&fc.DataDir, "d", "", "data directory")
	flag.StringVar(&fc.BackupDir, "b", "", "backup directory")
	flag.StringVar(&fc.ReportDir, "r", "", "report directory")

	flag.Parse()

	cfg := Default()
	cfg.ConfigFile = firstNonEmpty(ec.ConfigFile, fc.ConfigFile, DefaultConfigFile)

	if err := cfg.applyFile(cfg.ConfigFile); err != nil {
		return nil, err
	}
	if err := cfg.apply(fc); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.apply(ec); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// applyFile накладывает значения из config.json. Отсутствующий файл,
// синтаксически неверный файл и ключи неверного типа оставляют текущие значения.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil
		}
	}

	setString(&c.DataDir, fc.Database.DataDirectory)
	setString(&c.BackupDir, fc.Database.BackupDirectory)
	setString(&c.ReportDir, fc.Database.ReportDirectory)
	if fc.Database.AutoBackup != nil {
		c.AutoBackup = *fc.Database.AutoBackup
	}
	if fc.Database.BackupInterval != nil && *fc.Database.BackupInterval > 0 {
		c.BackupInterval = *fc.Database.BackupInterval
	}
	if fc.Logging.Level != nil && isValidLogLevel(*fc.Logging.Level) {
		c.LogLevel = *fc.Logging.Level
	}
	if fc.Logging.LogToFile != nil {
		c.LogToFile = *fc.Logging.LogToFile
	}
	setString(&c.LogFile, fc.Logging.LogFile)

	return nil
}

// apply накладывает непустые строковые значения.
func (c *Config) apply(src envConfig) error {
	c.DataDir = firstNonEmpty(src.DataDir, c.DataDir)
	c.BackupDir = firstNonEmpty(src.BackupDir, c.BackupDir)
	c.ReportDir = firstNonEmpty(src.ReportDir, c.ReportDir)
	if src.LogLevel != "" {
		if !isValidLogLevel(src.LogLevel) {
			return fmt.Errorf("unknown log level %q", src.LogLevel)
		}
		c.LogLevel = src.LogLevel
	}
	c.LogFile = firstNonEmpty(src.LogFile, c.LogFile)

	if src.AutoBackup != "" {
		v, err := strconv.ParseBool(src.AutoBackup)
		if err != nil {
			return fmt.Errorf("auto backup %q: %w", src.AutoBackup, err)
		}
		c.AutoBackup = v
	}
	if src.LogToFile != "" {
		v, err := strconv.ParseBool(src.LogToFile)
		if err != nil {
			return fmt.Errorf("log to file %q: %w", src.LogToFile, err)
		}
		c.LogToFile = v
	}
	if src.BackupInterval != "" {
		v, err := strconv.Atoi(src.BackupInterval)
		if err != nil || v <= 0 {
			return fmt.Errorf("backup interval %q: must be a positive number of minutes", src.BackupInterval)
		}
		c.BackupInterval = v
	}

	return nil
}

func isValidLogLevel(level string) bool {
	_, err := zapcore.ParseLevel(level)
	return err == nil
}

func setString(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = *v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
