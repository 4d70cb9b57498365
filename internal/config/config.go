package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for the data document.
const (
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Location  LocationConfig
	Drives    DrivesConfig
	Auth      AuthConfig
	Backup    BackupConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type StorageConfig struct {
	Backend  string
	DataFile string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type LocationConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type DrivesConfig struct {
	EnforceCapacity bool
	MaxCapacity     int
	DefaultTime     string
	Timezone        *time.Location
}

type AuthConfig struct {
	BcryptCost int
}

type BackupConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("STORAGE_BACKEND", BackendFile)
	viper.SetDefault("DATA_FILE", "data.json")
	viper.SetDefault("MONGODB_DATABASE", "bloodsync")
	viper.SetDefault("MONGODB_COLLECTION", "snapshots")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("LOCATION_API_URL", "https://api.postalpincode.in")
	viper.SetDefault("LOCATION_TIMEOUT_SECONDS", 5)
	viper.SetDefault("LOCATION_CACHE_TTL_MINUTES", 1440)
	viper.SetDefault("DRIVES_ENFORCE_CAPACITY", true)
	viper.SetDefault("DRIVES_MAX_CAPACITY", 100)
	viper.SetDefault("DRIVES_DEFAULT_TIME", "9:00 AM - 5:00 PM")
	viper.SetDefault("DRIVES_TIMEZONE", "Local")
	viper.SetDefault("AUTH_BCRYPT_COST", 10)
	viper.SetDefault("BACKUP_ENABLED", false)
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_BUCKET", "bloodsync-backups")

	tz, err := time.LoadLocation(viper.GetString("DRIVES_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRIVES_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_BACKEND"))),
			DataFile: viper.GetString("DATA_FILE"),
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Location: LocationConfig{
			BaseURL:  strings.TrimRight(viper.GetString("LOCATION_API_URL"), "/"),
			Timeout:  time.Duration(viper.GetInt("LOCATION_TIMEOUT_SECONDS")) * time.Second,
			CacheTTL: time.Duration(viper.GetInt("LOCATION_CACHE_TTL_MINUTES")) * time.Minute,
		},
		Drives: DrivesConfig{
			EnforceCapacity: viper.GetBool("DRIVES_ENFORCE_CAPACITY"),
			MaxCapacity:     viper.GetInt("DRIVES_MAX_CAPACITY"),
			DefaultTime:     viper.GetString("DRIVES_DEFAULT_TIME"),
			Timezone:        tz,
		},
		Auth: AuthConfig{
			BcryptCost: viper.GetInt("AUTH_BCRYPT_COST"),
		},
		Backup: BackupConfig{
			Enabled:   viper.GetBool("BACKUP_ENABLED"),
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want file, mongo or memory)", c.Storage.Backend)
	}
	if c.Backup.Enabled && c.Backup.Endpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required when BACKUP_ENABLED=true")
	}
	if c.Drives.MaxCapacity <= 0 {
		return fmt.Errorf("DRIVES_MAX_CAPACITY must be positive")
	}
	return nil
}
