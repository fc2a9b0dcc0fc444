package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvStoreDriver = "STORE_DRIVER"
	EnvSQLitePath  = "SQLITE_PATH"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvClinicTimezone      = "CLINIC_TIMEZONE"
	EnvBookingWindowDays   = "BOOKING_WINDOW_DAYS"
	EnvBookingCommitDelay  = "BOOKING_COMMIT_DELAY"
	EnvWhatsAppCountryCode = "WHATSAPP_COUNTRY_CODE"
	EnvClinicContactPhone  = "CLINIC_CONTACT_PHONE"
	EnvDoctorName          = "DOCTOR_NAME"
	EnvRecentBookingsLimit = "RECENT_BOOKINGS_LIMIT"

	EnvEventsEnabled     = "EVENTS_ENABLED"
	EnvKafkaBookingTopic = "KAFKA_BOOKING_TOPIC"
)
