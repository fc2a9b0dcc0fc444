package config

import "time"

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinicbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultStoreDriver = StoreMongo
	DefaultSQLitePath  = "clinicbook.db"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultClinicTimezone      = "Asia/Kolkata"
	DefaultBookingWindowDays   = 7
	DefaultBookingCommitDelay  = 0 * time.Second
	DefaultWhatsAppCountryCode = "91"
	DefaultClinicContactPhone  = "+91 84009 86113"
	DefaultDoctorName          = "Dr. Prashant Agrawal"
	DefaultRecentBookingsLimit = 5

	DefaultEventsEnabled     = false
	DefaultKafkaBookingTopic = "clinic.bookings"
)
