package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string
	ClientURL   string // Extra CORS origin for the dashboard front end

	// Location is the calendar used to decide what "today" is for reports and analytics
	Location *time.Location

	TopContributors    int
	AnalyticsCacheSize int
	AnalyticsCacheTTL  time.Duration

	ReminderTTL          time.Duration // Lifetime of a temporary reminder
	ReminderRetention    time.Duration // How long expired reminders are kept before purging
	HousekeepingSchedule string        // Standard cron expression
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:                 getEnv("PORT", "5000"),
		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("DB_NAME", "worklog"),
		SkipAuth:             getEnv("SKIP_AUTH", "false") == "true",
		Environment:          getEnv("ENVIRONMENT", "development"),
		AppId:                getEnv("APP_ID", "go-worklog"),
		ClientURL:            strings.TrimSpace(getEnv("CLIENT_URL", "")),
		Location:             getLocation("TIMEZONE", time.Local),
		TopContributors:      getInt("TOP_CONTRIBUTORS", 5),
		AnalyticsCacheSize:   getInt("ANALYTICS_CACHE_SIZE", 256),
		AnalyticsCacheTTL:    getDuration("ANALYTICS_CACHE_TTL", 2*time.Minute),
		ReminderTTL:          getDuration("REMINDER_TTL", 24*time.Hour),
		ReminderRetention:    getDuration("REMINDER_RETENTION", 30*24*time.Hour),
		HousekeepingSchedule: getEnv("HOUSEKEEPING_SCHEDULE", "5 0 * * *"),
	}, nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getLocation(key string, fallback *time.Location) *time.Location {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return fallback
	}
	loc, err := time.LoadLocation(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Unknown %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return loc
}
