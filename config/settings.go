package config

var (
	AppVersion             = "v1.3.0"
	AppPort                = "3000"
	AppDebug               = false
	AppBasicAuthCredential []string
	AppBasePath            = ""
	AppTrustedProxies      []string

	PathStorages = "storages"

	// Database settings. SQLite file by default, postgres supported via DB_DRIVER.
	DBDriver = "sqlite"
	DBName   = "storages/travelbot.db"
	DBHost   = "localhost"
	DBPort   = 5432
	DBUser   = "travelbot"
	DBPass   = ""

	// Tier-1 cache backend: "memory" (default) or "valkey".
	CacheTier1Backend      = "memory"
	CacheSweepIntervalMins = 360 // minutes between background expiry sweeps

	ValkeyAddress   = "localhost:6379"
	ValkeyPassword  = ""
	ValkeyDB        = 0
	ValkeyKeyPrefix = "travelbot"

	// Default origin used when a flight request carries only a destination.
	// Overridden per user by the learned home city preference.
	DefaultOriginCity = "Lagos"
	DefaultOriginCode = "LOS"

	AmadeusBaseURL      = "https://test.api.amadeus.com"
	AmadeusClientID     = ""
	AmadeusClientSecret = ""

	RapidAPIKey  = ""
	RapidAPIHost = "booking-com.p.rapidapi.com"

	SessionTTLMinutes = 30
)
