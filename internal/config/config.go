package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Attendance AttendanceConfig
	Push       PushConfig
	Scheduler  SchedulerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name          string
	Version       string
	Port          int
	Env           string
	LogLevel      string
	Timezone      string
	DefaultLocale string
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	SocketExpiration string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AttendanceConfig holds the working-day rules used by scans and reports.
type AttendanceConfig struct {
	LateAfter           string // HH:MM, check-ins after this minute are late
	EarlyBefore         string // HH:MM, check-outs at or before this minute are early going
	RestDays            []time.Weekday
	SickEntitlement     int
	PersonalEntitlement int
	ScannerAPIKey       string
}

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTL             int
}

type SchedulerConfig struct {
	Enabled            bool
	DashboardBroadcast string
	OpenCheckoutReport string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, reading process environment")
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:          getEnv("APP_NAME", "attendance-backend"),
		Version:       getEnv("APP_VERSION", "v1.0.0"),
		Port:          appPort,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		DefaultLocale: getEnv("APP_DEFAULT_LOCALE", "en"),
	}

	config.Storage = StorageConfig{
		Driver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverMongoDB)),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "attendance"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "168h"),
		SocketExpiration: getEnv("JWT_SOCKET_EXPIRATION_TIME", "5m"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	restDays, err := parseWeekdays(getEnvSlice("ATTENDANCE_REST_DAYS", []string{"Sunday"}))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_REST_DAYS: %w", err)
	}
	sick, err := strconv.Atoi(getEnv("LEAVE_SICK_ENTITLEMENT", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_SICK_ENTITLEMENT: %w", err)
	}
	personal, err := strconv.Atoi(getEnv("LEAVE_PERSONAL_ENTITLEMENT", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_PERSONAL_ENTITLEMENT: %w", err)
	}

	config.Attendance = AttendanceConfig{
		LateAfter:           getEnv("ATTENDANCE_LATE_AFTER", "10:00"),
		EarlyBefore:         getEnv("ATTENDANCE_EARLY_BEFORE", "17:00"),
		RestDays:            restDays,
		SickEntitlement:     sick,
		PersonalEntitlement: personal,
		ScannerAPIKey:       getEnv("SCANNER_API_KEY", ""),
	}

	ttl, err := strconv.Atoi(getEnv("PUSH_TTL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUSH_TTL_SECONDS: %w", err)
	}

	config.Push = PushConfig{
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		Subscriber:      getEnv("VAPID_SUBSCRIBER", ""),
		TTL:             ttl,
	}

	config.Scheduler = SchedulerConfig{
		Enabled:            getEnv("SCHEDULER_ENABLED", "true") == "true",
		DashboardBroadcast: getEnv("SCHEDULER_DASHBOARD_SPEC", "@every 1m"),
		OpenCheckoutReport: getEnv("SCHEDULER_OPEN_CHECKOUT_SPEC", "55 23 * * *"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongoDB:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if _, _, err := ParseClock(c.Attendance.LateAfter); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_LATE_AFTER: %w", err)
	}
	if _, _, err := ParseClock(c.Attendance.EarlyBefore); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_EARLY_BEFORE: %w", err)
	}
	if c.Attendance.SickEntitlement < 0 || c.Attendance.PersonalEntitlement < 0 {
		return fmt.Errorf("leave entitlements must not be negative")
	}
	return nil
}

// Location returns the configured time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PushEnabled reports whether VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.Push.VAPIDPublicKey != "" && c.Push.VAPIDPrivateKey != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ParseClock parses an "HH:MM" wall-clock value.
func ParseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(strings.TrimSpace(name), d.String()) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
	}
	return days, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string = strings.Split(value, ",")
	return result
}
