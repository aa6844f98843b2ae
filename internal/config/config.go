package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Debug code exposure policies for OTP issuance responses.
const (
	DebugCodeNever     = "never"
	DebugCodeOnFailure = "on_failure"
	DebugCodeAlways    = "always"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	Log        LogConfig
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	Auth       AuthConfig
	OTP        OTPConfig
	Signup     SignupConfig
	SMTP       SMTPConfig
	Email      EmailConfig
	Cache      Cache
	Queue      QueueConfig
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	File  string `env:"LOG_FILE" env-default:"" env-description:"optional path of a rotated log file"`
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	AllowedOrigins []string      `env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:8080"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	ConnectRetries     uint64        `env:"DB_CONNECT_RETRIES" env-default:"5"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	JWT                    JWTConfig
	VerificationCodeLength int `env:"AUTH_VERIFICATION_CODE_LENGTH" env-default:"6"`
	PasswordMinLength      int `env:"AUTH_PASSWORD_MIN_LENGTH" env-default:"8"`
}

type JWTConfig struct {
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"240h"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
}

type OTPConfig struct {
	TTL                time.Duration `env:"OTP_TTL" env-default:"10m"`
	DebugCode          string        `env:"OTP_DEBUG_CODE" env-default:"on_failure" env-description:"one of never/on_failure/always"`
	InvalidatePrevious bool          `env:"OTP_INVALIDATE_PREVIOUS" env-default:"false" env-description:"mark older unused codes as used on every issuance"`
	PurgeTimeout       time.Duration `env:"OTP_INLINE_PURGE_TIMEOUT" env-default:"250ms" env-description:"budget of the expired code purge run on issuance, 0 leaves purging to the worker"`
}

type SignupConfig struct {
	PendingTTL     time.Duration `env:"SIGNUP_PENDING_TTL" env-default:"30m"`
	ResendCooldown time.Duration `env:"SIGNUP_RESEND_COOLDOWN" env-default:"60s"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-default:""`
	Port int    `env:"SMTP_PORT" env-default:"587"`
	User string `env:"SMTP_USER" env-default:""`
	From string `env:"SMTP_FROM" env-default:"onboarding@btech-hub.local"`
	Pass string `env:"SMTP_PASS" env-default:""`
}

type EmailConfig struct {
	Enabled    bool   `env:"EMAIL_ENABLED" env-default:"false"`
	SenderName string `env:"EMAIL_SENDER_NAME" env-default:"B-Tech Hub"`
	Templates  EmailTemplates
}

type EmailTemplates struct {
	Verification string `env:"EMAIL_TEMPLATE_VERIFICATION" env-default:"verification.html"`
	Recovery     string `env:"EMAIL_TEMPLATE_RECOVERY" env-default:"recovery.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"localhost:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: 172.27.29.90:7000,172.27.29.91:7001"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

type QueueConfig struct {
	Enabled       bool          `env:"QUEUE_ENABLED" env-default:"false" env-description:"retry failed email deliveries through asynq"`
	Concurrency   int           `env:"QUEUE_CONCURRENCY" env-default:"10"`
	PurgeInterval time.Duration `env:"QUEUE_PURGE_INTERVAL" env-default:"5m"`
}

func MustLoad() *Config {
	var cfg Config

	// .env is optional, real environment always wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot read .env file: %s", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return &cfg
}
