package config

const EnvPrefix = "ECODOTT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

const (
	EnvAppEnv        = "ECODOTT_APP_ENV"
	EnvPort          = "ECODOTT_APP_PORT"
	EnvLogLevel      = "ECODOTT_LOG_LEVEL"
	EnvLogFormat     = "ECODOTT_LOG_FORMAT"
	EnvLogWarnStack  = "ECODOTT_LOG_WARN_STACK"
	EnvCORSOrigins   = "ECODOTT_CORS_ALLOWED_ORIGINS"
	EnvStoreBackend  = "ECODOTT_STORE_BACKEND"
	EnvDBDSN         = "ECODOTT_DB_DSN"
	EnvDBAutoMigrate = "ECODOTT_DB_AUTO_MIGRATE"
	EnvRedisURL      = "ECODOTT_REDIS_URL"
	EnvRedisPrefix   = "ECODOTT_REDIS_KEY_PREFIX"

	EnvProcessingDelay   = "ECODOTT_CHECKOUT_PROCESSING_DELAY"
	EnvVerificationDelay = "ECODOTT_CHECKOUT_VERIFICATION_DELAY"
	EnvCODDelay          = "ECODOTT_CHECKOUT_COD_DELAY"
	EnvConfirmWindow     = "ECODOTT_CHECKOUT_CONFIRM_WINDOW"
	EnvCODSurcharge      = "ECODOTT_CHECKOUT_COD_SURCHARGE"

	EnvMerchantUPIID  = "ECODOTT_PAYMENT_MERCHANT_UPI_ID"
	EnvMerchantName   = "ECODOTT_PAYMENT_MERCHANT_NAME"
	EnvPaymentSuccess = "ECODOTT_PAYMENT_SUCCESS_RATE"
)
