package config

const (
	EnvPrefix = "WAYFARER"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WAYFARER_APP_ENV"
	EnvPort     = "WAYFARER_APP_PORT"
	EnvDBDSN    = "WAYFARER_DB_DSN"
	EnvDBHost   = "WAYFARER_DB_HOST"
	EnvDBUser   = "WAYFARER_DB_USER"
	EnvDBName   = "WAYFARER_DB_NAME"
	EnvRedisURL = "WAYFARER_REDIS_URL"

	EnvPricingTaxRate  = "WAYFARER_PRICING_TAX_RATE"
	EnvPricingCurrency = "WAYFARER_PRICING_CURRENCY"
	EnvBookingTimezone = "WAYFARER_BOOKING_TIMEZONE"
	EnvBookingAPIURL   = "WAYFARER_BOOKING_API_URL"
	EnvAMQPURL         = "WAYFARER_AMQP_URL"
	EnvCORSOrigins     = "WAYFARER_CORS_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
