package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	TokenTTL    time.Duration
	MongoURI    string
	DBName      string
	// MongoConnectTimeout bounds the initial connect and ping
	MongoConnectTimeout time.Duration
	CORSOrigins         string
	RedisURL    string
	SkipAuth    bool
	Environment string
	AppId       string

	// Document storage
	StorageType string // "local" or "s3"
	FSPath      string // Physical directory for local uploads
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	DirectoryCacheTTL  time.Duration
	SubmitGuardTTL     time.Duration
	LogRetentionDays   int
	LogCleanupSchedule string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 72*time.Hour),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "docflow"),

		MongoConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "docflow"),

		StorageType: getEnv("STORAGE_TYPE", "local"),
		FSPath:      getEnv("FS_PATH", "./uploads"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		DirectoryCacheTTL:  getEnvDuration("DIRECTORY_CACHE_TTL", time.Minute),
		SubmitGuardTTL:     getEnvDuration("SUBMIT_GUARD_TTL", 30*time.Second),
		LogRetentionDays:   getEnvInt("LOG_RETENTION_DAYS", 30),
		LogCleanupSchedule: getEnv("LOG_CLEANUP_SCHEDULE", "0 3 * * *"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
