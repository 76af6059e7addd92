package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
	IDGen       IDGenConfig       `yaml:"idgen"`
	MDMS        MDMSConfig        `yaml:"mdms"`
	Individual  IndividualConfig  `yaml:"individual"`
	Beneficiary BeneficiaryConfig `yaml:"beneficiary"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `yaml:"host"                  env:"SERVER_HOST"                  env-default:"0.0.0.0"`
	Port               int           `yaml:"port"                  env:"SERVER_PORT"                  env-default:"8080"`
	ReadTimeout        time.Duration `yaml:"read_timeout"          env:"SERVER_READ_TIMEOUT"          env-default:"10s"`
	WriteTimeout       time.Duration `yaml:"write_timeout"         env:"SERVER_WRITE_TIMEOUT"         env-default:"30s"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"          env:"SERVER_IDLE_TIMEOUT"          env-default:"60s"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"      env:"SERVER_SHUTDOWN_TIMEOUT"      env-default:"10s"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"600"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectAttempts int           `yaml:"connect_attempts"   env:"DATABASE_CONNECT_ATTEMPTS"   env-default:"5"`
}

// RedisConfig holds the dispatch counter store connection.
type RedisConfig struct {
	Addr     string `yaml:"addr"      env:"REDIS_ADDR"      env-default:"localhost:6379"`
	Password string `yaml:"password"  env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"        env:"REDIS_DB"        env-default:"0"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
}

// KafkaConfig holds broker settings shared by the producer and the worker.
type KafkaConfig struct {
	Brokers    string `yaml:"brokers"     env:"KAFKA_BROKERS"     env-default:"localhost:9092"`
	GroupID    string `yaml:"group_id"    env:"KAFKA_GROUP_ID"    env-default:"health-registry-persister"`
	ErrorTopic string `yaml:"error_topic" env:"KAFKA_ERROR_TOPIC" env-default:"health-registry-errors"`

	RetryAttempts int           `yaml:"retry_attempts" env:"KAFKA_RETRY_ATTEMPTS" env-default:"3"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"  env:"KAFKA_RETRY_BACKOFF"  env-default:"200ms"`
}

// BrokerList splits Brokers on commas.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// DispatchConfig holds per user and device dispatch quotas.
type DispatchConfig struct {
	LimitTotal              int64  `yaml:"limit_user_device_total"           env:"DISPATCH_LIMIT_USER_DEVICE_TOTAL"           env-default:"100"`
	LimitPerDay             int64  `yaml:"limit_user_device_per_day"         env:"DISPATCH_LIMIT_USER_DEVICE_PER_DAY"         env-default:"50"`
	PerDayEnabled           bool   `yaml:"limit_user_device_per_day_enabled" env:"DISPATCH_LIMIT_USER_DEVICE_PER_DAY_ENABLED" env-default:"false"`
	UsagePerDayExpireDays   int    `yaml:"usage_per_day_expire_days"         env:"DISPATCH_USAGE_PER_DAY_EXPIRE_DAYS"         env-default:"1"`
	UsageTotalExpireDays    int    `yaml:"usage_total_expire_days"           env:"DISPATCH_USAGE_TOTAL_EXPIRE_DAYS"           env-default:"365"`
	RestrictToToday         bool   `yaml:"retrieval_restrict_to_today"       env:"DISPATCH_RETRIEVAL_RESTRICT_TO_TODAY"       env-default:"false"`
	TimeZone                string `yaml:"time_zone"                         env:"DISPATCH_TIME_ZONE"                         env-default:"UTC"`
	SaveDispatchLogTopic    string `yaml:"save_dispatch_log_topic"           env:"DISPATCH_SAVE_DISPATCH_LOG_TOPIC"           env-default:"save-id-dispatch-log"`
	UpdateIDPoolStatusTopic string `yaml:"update_id_pool_status_topic"       env:"DISPATCH_UPDATE_ID_POOL_STATUS_TOPIC"       env-default:"update-id-pool-status"`

	// Location is parsed from TimeZone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// PerDayTTL is how long a daily counter lives.
func (d DispatchConfig) PerDayTTL() time.Duration {
	return time.Duration(d.UsagePerDayExpireDays) * 24 * time.Hour
}

// TotalTTL is how long a total counter lives after its last update.
func (d DispatchConfig) TotalTTL() time.Duration {
	return time.Duration(d.UsageTotalExpireDays) * 24 * time.Hour
}

// IDGenConfig holds id formatting and pool generation settings.
type IDGenConfig struct {
	FormatFromMDMS      bool   `yaml:"format_from_mdms"           env:"IDGEN_FORMAT_FROM_MDMS"           env-default:"false"`
	AutoCreateSeq       bool   `yaml:"auto_create_new_seq"        env:"IDGEN_AUTO_CREATE_NEW_SEQ"        env-default:"false"`
	PoolSeqCode         string `yaml:"id_pool_seq_code"           env:"IDGEN_ID_POOL_SEQ_CODE"           env-default:"id.pool.seq"`
	IndividualIDName    string `yaml:"individual_id_name"         env:"IDGEN_INDIVIDUAL_ID_NAME"         env-default:"individual.id"`
	RandomBufferPercent int    `yaml:"random_buffer_percent"      env:"IDGEN_RANDOM_BUFFER_PERCENT"      env-default:"5"`
	PoolCreateBatchSize int    `yaml:"pool_create_batch_size"     env:"IDGEN_POOL_CREATE_BATCH_SIZE"     env-default:"1000"`
	PoolAsyncBatchSize  int    `yaml:"pool_async_batch_size"      env:"IDGEN_POOL_ASYNC_BATCH_SIZE"      env-default:"50000"`
	PaddingLength       int    `yaml:"padding_length"             env:"IDGEN_PADDING_LENGTH"             env-default:"12"`
	TimeZone            string `yaml:"time_zone"                  env:"IDGEN_TIME_ZONE"                  env-default:"UTC"`
	SaveIDPoolTopic     string `yaml:"save_id_pool_topic"         env:"IDGEN_SAVE_ID_POOL_TOPIC"         env-default:"save-id-pool"`
	AsyncCreateTopic    string `yaml:"id_pool_async_create_topic" env:"IDGEN_ID_POOL_ASYNC_CREATE_TOPIC" env-default:"async-create-id-pool"`

	// Location is parsed from TimeZone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// MDMSConfig holds the master data service client settings.
type MDMSConfig struct {
	Host       string        `yaml:"host"        env:"MDMS_HOST"        env-default:"http://localhost:8094"`
	SearchPath string        `yaml:"search_path" env:"MDMS_SEARCH_PATH" env-default:"/egov-mdms-service/v1/_search"`
	Timeout    time.Duration `yaml:"timeout"     env:"MDMS_TIMEOUT"     env-default:"5s"`
}

// IndividualConfig holds the individual topics and validation switches.
type IndividualConfig struct {
	BeneficiaryIDValidation bool   `yaml:"beneficiary_id_validation_enabled" env:"INDIVIDUAL_BENEFICIARY_ID_VALIDATION_ENABLED" env-default:"false"`
	SaveTopic               string `yaml:"save_topic"                        env:"INDIVIDUAL_SAVE_TOPIC"                        env-default:"save-individual-topic"`
	UpdateTopic             string `yaml:"update_topic"                      env:"INDIVIDUAL_UPDATE_TOPIC"                      env-default:"update-individual-topic"`
	DeleteTopic             string `yaml:"delete_topic"                      env:"INDIVIDUAL_DELETE_TOPIC"                      env-default:"delete-individual-topic"`
}

// BeneficiaryConfig holds the project beneficiary topics.
type BeneficiaryConfig struct {
	SaveTopic   string `yaml:"save_topic"   env:"BENEFICIARY_SAVE_TOPIC"   env-default:"save-project-beneficiary-topic"`
	UpdateTopic string `yaml:"update_topic" env:"BENEFICIARY_UPDATE_TOPIC" env-default:"update-project-beneficiary-topic"`
	DeleteTopic string `yaml:"delete_topic" env:"BENEFICIARY_DELETE_TOPIC" env-default:"delete-project-beneficiary-topic"`
}

// AuthConfig holds bearer token settings. With an empty secret requests are
// accepted without tokens and the caller is taken from RequestInfo.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"health-registry"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// Enabled reports whether bearer tokens are verified.
func (a AuthConfig) Enabled() bool { return a.JWTSecret != "" }

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
