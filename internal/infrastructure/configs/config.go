package configs

import (
	"fmt"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/env"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig           `koanf:"http"`
	RateLimiter RateLimiterConfig    `koanf:"rateLimiter"`
	Rooms       RoomsConfig          `koanf:"rooms"`
	WS          WSConfig             `koanf:"ws"`
	Executor    ExecutorConfig       `koanf:"executor"`
	RabbitMQ    RabbitMQConfig       `koanf:"rabbitmq"`
	Audit       AuditConfig          `koanf:"audit"`
	Tracing     TracingConfig        `koanf:"tracing"`
	Logger      logging.LoggerConfig `koanf:"logger"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
	RedisAddr        string        `koanf:"redisAddr"`
	RunsPerMinute    int           `koanf:"runsPerMinute"`
}

type RoomsConfig struct {
	IdleTTL             time.Duration `koanf:"idle_ttl"`
	MaxRooms            int           `koanf:"max_rooms"`
	MaxMembers          int           `koanf:"max_members"`
	EnforceAdmin        bool          `koanf:"enforce_admin"`
	PromoteOnAdminLeave bool          `koanf:"promote_on_admin_leave"`
	Debounce            time.Duration `koanf:"debounce"`
}

type WSConfig struct {
	ReadLimit  int64         `koanf:"read_limit"`
	WriteWait  time.Duration `koanf:"write_wait"`
	PongWait   time.Duration `koanf:"pong_wait"`
	SendBuffer int           `koanf:"send_buffer"`
}

type ExecutorConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Timeout  time.Duration `koanf:"timeout"`
}

// RabbitMQConfig enables the room event bus when URI is set.
type RabbitMQConfig struct {
	URI       string `koanf:"uri"`
	QueueSize int    `koanf:"queue_size"`
	Workers   int    `koanf:"workers"`
	MaxRetry  int    `koanf:"max_retry"`
}

// AuditConfig stores room events for later lookup. Without a Mongo URI the
// trail is kept in memory, Capacity entries per room.
type AuditConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Capacity  int           `koanf:"capacity"`
	MongoURI  string        `koanf:"mongo_uri"`
	Database  string        `koanf:"database"`
	Timeout   time.Duration `koanf:"timeout"`
	Retention time.Duration `koanf:"retention"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`
	// SampleRatio is the share of root traces kept, in (0, 1].
	SampleRatio float64 `koanf:"sample_ratio"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")
	setDefault(k, "rateLimiter.runsPerMinute", 30)

	setDefault(k, "rooms.idle_ttl", 10*time.Minute)
	setDefault(k, "rooms.max_rooms", 1000)
	setDefault(k, "rooms.max_members", 50)
	setDefault(k, "rooms.enforce_admin", false)
	setDefault(k, "rooms.promote_on_admin_leave", false)
	setDefault(k, "rooms.debounce", 300*time.Millisecond)

	setDefault(k, "ws.read_limit", 1<<20)
	setDefault(k, "ws.write_wait", 10*time.Second)
	setDefault(k, "ws.pong_wait", 60*time.Second)
	setDefault(k, "ws.send_buffer", 256)

	setDefault(k, "executor.endpoint", "http://localhost:8000/execute")
	setDefault(k, "executor.timeout", 15*time.Second)

	setDefault(k, "rabbitmq.queue_size", 1024)
	setDefault(k, "rabbitmq.workers", 2)
	setDefault(k, "rabbitmq.max_retry", 3)

	setDefault(k, "audit.enabled", false)
	setDefault(k, "audit.capacity", 200)
	setDefault(k, "audit.database", "codeboard")
	setDefault(k, "audit.timeout", 20*time.Second)
	setDefault(k, "audit.retention", 90*24*time.Hour)

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")
	setDefault(k, "tracing.service_name", "codeboard")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.sample_ratio", 1.0)

	setDefault(k, "logger.file_path", "./logs/")
	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.logger", "zap")
	setDefault(k, "logger.stdout", true)
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if sourceKey := env.GetString("RATE_LIMIT_SOURCE_HEADER_KEY", ""); sourceKey != "" {
		k.Set("rateLimiter.sourceHeaderKey", sourceKey)
	}
	if addr := env.GetString("REDIS_ADDR", ""); addr != "" {
		k.Set("rateLimiter.redisAddr", addr)
	}

	if ttl := env.GetDuration("ROOMS_IDLE_TTL", 0); ttl > 0 {
		k.Set("rooms.idle_ttl", ttl)
	}
	if maxRooms := env.GetInt("ROOMS_MAX_ROOMS", 0); maxRooms > 0 {
		k.Set("rooms.max_rooms", maxRooms)
	}
	if maxMembers := env.GetInt("ROOMS_MAX_MEMBERS", 0); maxMembers > 0 {
		k.Set("rooms.max_members", maxMembers)
	}
	k.Set("rooms.enforce_admin", env.GetBool("ROOMS_ENFORCE_ADMIN", k.Bool("rooms.enforce_admin")))
	k.Set("rooms.promote_on_admin_leave", env.GetBool("ROOMS_PROMOTE_ON_ADMIN_LEAVE", k.Bool("rooms.promote_on_admin_leave")))

	if endpoint := env.GetString("EXECUTOR_ENDPOINT", ""); endpoint != "" {
		k.Set("executor.endpoint", endpoint)
	}
	if timeout := env.GetDuration("EXECUTOR_TIMEOUT", 0); timeout > 0 {
		k.Set("executor.timeout", timeout)
	}

	if uri := env.GetString("RABBITMQ_URI", ""); uri != "" {
		k.Set("rabbitmq.uri", uri)
	}

	k.Set("audit.enabled", env.GetBool("AUDIT_ENABLED", k.Bool("audit.enabled")))
	if uri := env.GetString("MONGODB_URI", ""); uri != "" {
		k.Set("audit.mongo_uri", uri)
	}
	if database := env.GetString("MONGODB_DATABASE", ""); database != "" {
		k.Set("audit.database", database)
	}

	k.Set("tracing.enabled", env.GetBool("TRACING_ENABLED", k.Bool("tracing.enabled")))
	if endpoint := env.GetString("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}

	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if backend := env.GetString("LOGGER_LOGGER", ""); backend != "" {
		k.Set("logger.logger", backend)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
