package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage. StoreDriver selects "mongo" (durable) or "memory" (dev/test).
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DatabaseNm  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration (intent journal + notification queue).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Scheduling parameters. These are deliberately configuration, not
	// constants: clinics differ on slot granularity and retry appetite.
	SlotGranularityMin  int `mapstructure:"SLOT_GRANULARITY_MIN"`
	ConflictRetryLimit  int `mapstructure:"CONFLICT_RETRY_LIMIT"`
	CandidateLimit      int `mapstructure:"CANDIDATE_LIMIT"`
	DefaultVisitMin     int `mapstructure:"DEFAULT_VISIT_MIN"`
	ReminderLeadHours   int `mapstructure:"REMINDER_LEAD_HOURS"`
	IntentJournalTTLMin int `mapstructure:"INTENT_JOURNAL_TTL_MIN"`

	// Email (confirmation / cancellation / reminder delivery).
	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   string `mapstructure:"SMTP_PORT"`
	SMTPSender string `mapstructure:"SMTP_SENDER"`

	// Operator (front-desk admin) auth.
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	OperatorKeyHash string `mapstructure:"OPERATOR_KEY_HASH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "frontdesk")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SLOT_GRANULARITY_MIN", 15)
	viper.SetDefault("CONFLICT_RETRY_LIMIT", 2)
	viper.SetDefault("CANDIDATE_LIMIT", 5)
	viper.SetDefault("DEFAULT_VISIT_MIN", 30)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("INTENT_JOURNAL_TTL_MIN", 60)
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "1025")
	viper.SetDefault("SMTP_SENDER", "frontdesk@clinic.local")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("OPERATOR_KEY_HASH", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SlotGranularity returns the candidate stepping interval.
func SlotGranularity() time.Duration {
	return time.Duration(AppConfig.SlotGranularityMin) * time.Minute
}

// DefaultVisitDuration is applied when an intent omits a duration.
func DefaultVisitDuration() time.Duration {
	return time.Duration(AppConfig.DefaultVisitMin) * time.Minute
}
