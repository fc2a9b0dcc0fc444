package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"clinicbook/pkg/client"
	"clinicbook/pkg/logger"

	"github.com/joho/godotenv"
)

var (
	reMongoScheme  = regexp.MustCompile(`^mongodb(\+srv)?://`)
	reMongoCreds   = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	reCountryCode  = regexp.MustCompile(`^[1-9][0-9]{0,3}$`)
	validDriverSet = map[string]bool{StoreMongo: true, StoreSQLite: true, StoreMemory: true}
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	StoreDriver string
	SQLitePath  string

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	ClinicTimezone      string
	Location            *time.Location
	BookingWindowDays   int
	BookingCommitDelay  time.Duration
	WhatsAppCountryCode string
	ClinicContactPhone  string
	DoctorName          string
	RecentBookingsLimit int

	EventsEnabled     bool
	KafkaBookingTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		StoreDriver: getEnvStr(EnvStoreDriver, DefaultStoreDriver),
		SQLitePath:  getEnvStr(EnvSQLitePath, DefaultSQLitePath),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ClinicTimezone:      getEnvStr(EnvClinicTimezone, DefaultClinicTimezone),
		BookingWindowDays:   getEnvNum(EnvBookingWindowDays, DefaultBookingWindowDays),
		BookingCommitDelay:  getEnvDuration(EnvBookingCommitDelay, DefaultBookingCommitDelay),
		WhatsAppCountryCode: getEnvStr(EnvWhatsAppCountryCode, DefaultWhatsAppCountryCode),
		ClinicContactPhone:  getEnvStr(EnvClinicContactPhone, DefaultClinicContactPhone),
		DoctorName:          getEnvStr(EnvDoctorName, DefaultDoctorName),
		RecentBookingsLimit: getEnvNum(EnvRecentBookingsLimit, DefaultRecentBookingsLimit),

		EventsEnabled:     getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		KafkaBookingTopic: getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Validate collects every problem instead of stopping at the first one. It
// also resolves ClinicTimezone into Location.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !validDriverSet[cfg.StoreDriver] {
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [mongo, sqlite, memory], got: %s", cfg.StoreDriver))
	}
	if cfg.StoreDriver == StoreMongo {
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !reMongoScheme.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}
	if cfg.StoreDriver == StoreSQLite && cfg.SQLitePath == "" {
		errors = append(errors, "SQLitePath cannot be empty when StoreDriver is sqlite")
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if loc, err := time.LoadLocation(cfg.ClinicTimezone); err != nil {
		errors = append(errors, fmt.Sprintf("ClinicTimezone must be a valid IANA zone, got: %s", cfg.ClinicTimezone))
	} else {
		cfg.Location = loc
	}
	if cfg.BookingWindowDays < 1 || cfg.BookingWindowDays > 60 {
		errors = append(errors, fmt.Sprintf("BookingWindowDays must be between 1 and 60, got: %d", cfg.BookingWindowDays))
	}
	if cfg.BookingCommitDelay < 0 {
		errors = append(errors, fmt.Sprintf("BookingCommitDelay cannot be negative, got: %s", cfg.BookingCommitDelay))
	}
	if !reCountryCode.MatchString(cfg.WhatsAppCountryCode) {
		errors = append(errors, fmt.Sprintf("WhatsAppCountryCode must be 1-4 digits without '+', got: %s", cfg.WhatsAppCountryCode))
	}
	if cfg.RecentBookingsLimit <= 0 {
		errors = append(errors, fmt.Sprintf("RecentBookingsLimit must be positive, got: %d", cfg.RecentBookingsLimit))
	}
	if cfg.EventsEnabled && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"sqlite_path", cfg.SQLitePath,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"clinic_timezone", cfg.ClinicTimezone,
		"booking_window_days", cfg.BookingWindowDays,
		"booking_commit_delay", cfg.BookingCommitDelay,
		"whatsapp_country_code", cfg.WhatsAppCountryCode,
		"recent_bookings_limit", cfg.RecentBookingsLimit,
		"events_enabled", cfg.EventsEnabled,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
	)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetSQLite() {
	cfg.Client.SetSQLite(cfg.Log, cfg.SQLitePath)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	return reMongoCreds.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
