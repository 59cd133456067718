package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Notification pipeline tuning. Admission delays smooth burst-prone
	// kinds so duplicates collapse before they are even queued.
	GroupingWindowSeconds int `mapstructure:"GROUPING_WINDOW_SECONDS"`
	QueueWorkers          int `mapstructure:"QUEUE_WORKERS"`
	LikeDelayMs           int `mapstructure:"LIKE_DELAY_MS"`
	ProfileViewDelayMs    int `mapstructure:"PROFILE_VIEW_DELAY_MS"`
	FriendPostDelayMs     int `mapstructure:"FRIEND_POST_DELAY_MS"`
	RetentionDays         int `mapstructure:"RETENTION_DAYS"`

	// Firebase Cloud Messaging (optional; offline push fallback is disabled
	// when no credentials file is configured).
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
	viper.SetDefault("APP_PORT", "8085")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GROUPING_WINDOW_SECONDS", 600)
	viper.SetDefault("QUEUE_WORKERS", 3)
	viper.SetDefault("LIKE_DELAY_MS", 2000)
	viper.SetDefault("PROFILE_VIEW_DELAY_MS", 3000)
	viper.SetDefault("FRIEND_POST_DELAY_MS", 5000)
	viper.SetDefault("RETENTION_DAYS", 90)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

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
