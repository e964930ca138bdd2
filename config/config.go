package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Schedule resolution cache.
	ScheduleCacheTTLSeconds int `mapstructure:"SCHEDULE_CACHE_TTL_SECONDS"`

	// Payment gateway.
	StripeKey         string `mapstructure:"STRIPE_KEY"`
	PaymentSuccessURL string `mapstructure:"PAYMENT_SUCCESS_URL"`
	PaymentCancelURL  string `mapstructure:"PAYMENT_CANCEL_URL"`

	// Background workers.
	PendingPaymentTTLMinutes int `mapstructure:"PENDING_PAYMENT_TTL_MINUTES"`
	ReminderLeadMinutes      int `mapstructure:"REMINDER_LEAD_MINUTES"`

	// Firebase Cloud Messaging.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
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
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SCHEDULE_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "consultbook")
	viper.SetDefault("PENDING_PAYMENT_TTL_MINUTES", 30)
	viper.SetDefault("REMINDER_LEAD_MINUTES", 60)
	viper.SetDefault("PAYMENT_SUCCESS_URL", "http://localhost:3000/payment/return")
	viper.SetDefault("PAYMENT_CANCEL_URL", "http://localhost:3000/payment/cancel")

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
