package service

type Config struct {
	DatabaseUri                   string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns              int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns          int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime       int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN                     string  `envconfig:"SENTRY_DSN"`
	DatadogAgentUrl               string  `envconfig:"DATADOG_AGENT_URL"`
	SentryTracesSampleRate        float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath                   string  `envconfig:"LOG_FILE_PATH"`
	LogLevel                      string  `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret                     []byte  `envconfig:"JWT_SECRET" required:"true"`
	InitialAdmin                  string  `envconfig:"INITIAL_ADMIN" required:"true"`
	Host                          string  `envconfig:"HOST" default:"localhost:3000"`
	Port                          int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit              int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	// Mutations are limited per caller to STRICT_RATE_LIMIT per second after
	// an initial burst of BURST_RATE_LIMIT, so a host can submit a block of
	// calls for one identity at once.
	StrictRateLimit               int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit                int     `envconfig:"BURST_RATE_LIMIT" default:"50"`
	EnablePrometheus              bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort                int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	RabbitMQUri                   string  `envconfig:"RABBITMQ_URI"`
	RabbitMQCallExchange          string  `envconfig:"RABBITMQ_CALL_EXCHANGE" default:"registry_call"`
	RabbitMQCallConsumerQueueName string  `envconfig:"RABBITMQ_CALL_CONSUMER_QUEUE_NAME" default:"registry_call_consumer"`
	RabbitMQTransferExchange      string  `envconfig:"RABBITMQ_TRANSFER_EXCHANGE" default:"registry_transfer"`
	MaxIdentifierLength           int     `envconfig:"MAX_IDENTIFIER_LENGTH" default:"64"`
	MaxStatusLength               int     `envconfig:"MAX_STATUS_LENGTH" default:"32"`
	MaxPayloadLength              int     `envconfig:"MAX_PAYLOAD_LENGTH" default:"1024"`
}
