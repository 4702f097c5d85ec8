package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatasetPath string
	LoadDelay   time.Duration

	HTTPAddr    string
	CORSOrigins []string
	SessionTTL  time.Duration
	FacetTTL    time.Duration

	ListLimit int
	MapLimit  int

	MapCenterLat float64
	MapCenterLng float64
	MapZoom      int
	FocusZoom    int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	CSVOutputPath string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DatasetPath: getEnv("DATASET_PATH", "./data.json"),
		LoadDelay:   time.Duration(getEnvInt("LOAD_DELAY_MS", 100)) * time.Millisecond,

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		FacetTTL:   time.Duration(getEnvInt("FACET_CACHE_TTL_MIN", 30)) * time.Minute,

		ListLimit: getEnvInt("LIST_LIMIT", 50),
		MapLimit:  getEnvInt("MAP_LIMIT", 500),

		MapCenterLat: getEnvFloat("MAP_CENTER_LAT", 16.047079),
		MapCenterLng: getEnvFloat("MAP_CENTER_LNG", 108.206230),
		MapZoom:      getEnvInt("MAP_ZOOM", 6),
		FocusZoom:    getEnvInt("FOCUS_ZOOM", 15),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "projectmap"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "projectmap"),
		PostgresDB:       getEnv("POSTGRES_DB", "projectmap"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/visible_projects.csv"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

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
	if len(out) == 0 {
		return fallback
	}
	return out
}
