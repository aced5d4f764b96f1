package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Pipeline PipelineConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
}

// PipelineConfig controls the quiz-creation pipeline: where yt-dlp
// lives, how long each external call may run, and how many pipelines
// may run at once.
type PipelineConfig struct {
	YtdlpPath         string
	DownloadTimeout   time.Duration
	TranscribeTimeout time.Duration
	GenerateTimeout   time.Duration
	MaxConcurrent     int64
}

type LoggerConfig struct {
	Level string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("jwt.access_token_ttl_minutes", 30)
	viper.SetDefault("jwt.refresh_token_ttl_hours", 24)
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("pipeline.ytdlp_path", "yt-dlp")
	viper.SetDefault("pipeline.download_timeout_seconds", 300)
	viper.SetDefault("pipeline.transcribe_timeout_seconds", 300)
	viper.SetDefault("pipeline.generate_timeout_seconds", 120)
	viper.SetDefault("pipeline.max_concurrent", 4)
	viper.SetDefault("logger.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Env: viper.GetString("env"),
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl_minutes") * time.Minute,
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl_hours") * time.Hour,
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("gemini.api_key"),
			Model:  viper.GetString("gemini.model"),
		},
		OpenAI: OpenAIConfig{
			APIKey: viper.GetString("openai.api_key"),
		},
		Pipeline: PipelineConfig{
			YtdlpPath:         viper.GetString("pipeline.ytdlp_path"),
			DownloadTimeout:   viper.GetDuration("pipeline.download_timeout_seconds") * time.Second,
			TranscribeTimeout: viper.GetDuration("pipeline.transcribe_timeout_seconds") * time.Second,
			GenerateTimeout:   viper.GetDuration("pipeline.generate_timeout_seconds") * time.Second,
			MaxConcurrent:     viper.GetInt64("pipeline.max_concurrent"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
		},
	}

	// Environment variables take precedence over the file for
	// deployment-sensitive values.
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		config.Gemini.APIKey = geminiKey
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.OpenAI.APIKey = openAIKey
	}

	return config, nil
}

// GetDSN builds the Oracle connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

// IsProduction reports whether the app runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
