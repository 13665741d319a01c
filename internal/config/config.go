package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"alfredoptarigan/resume-parser/internal/logger"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Parser   ParserConfig
	Gemini   GeminiConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // sqlite or postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type ParserConfig struct {
	GazetteerPath         string
	HeaderWindow          int
	CaseInsensitiveSkills bool
	UnknownName           string
	NERBackend            string // prose, gemini or none
	ExtractionTimeout     time.Duration
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	MaxRetries int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads envFiles (".env" when none are given) and then the process
// environment. Missing files are not an error.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Debug().Err(err).Msg("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_parser"),
			Path:     getEnv("DB_PATH", "resume.db"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Parser: ParserConfig{
			GazetteerPath:         getEnv("GAZETTEER_PATH", ""),
			HeaderWindow:          getEnvAsInt("HEADER_WINDOW", 0),
			CaseInsensitiveSkills: getEnvAsBool("CASE_INSENSITIVE_SKILLS", false),
			UnknownName:           getEnv("UNKNOWN_NAME", ""),
			NERBackend:            strings.ToLower(getEnv("NER_BACKEND", "prose")),
			ExtractionTimeout:     getEnvAsDuration("EXTRACTION_TIMEOUT", "0s"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			MaxRetries: getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "pretty"),
		},
	}
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
