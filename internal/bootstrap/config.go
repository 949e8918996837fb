package bootstrap

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RealtimeAPIURL string
	RealtimeAPIKey string
	RealtimeModel  string
	RealtimeVoice  string

	SamplerFrameRate        int
	SamplerQuality          float64
	SamplerMaxWidth         int
	SamplerMaxHeight        int
	SamplerChangeThreshold  float64
	SamplerMinFrameInterval time.Duration

	FrameTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RealtimeAPIURL: getEnv("REALTIME_API_URL", "https://api.openai.com"),
		RealtimeAPIKey: getEnv("REALTIME_API_KEY", ""),
		RealtimeModel:  getEnv("REALTIME_MODEL", "gpt-realtime"),
		RealtimeVoice:  getEnv("REALTIME_VOICE", "marin"),

		SamplerFrameRate:        getEnvInt("SAMPLER_FRAME_RATE", 0),
		SamplerQuality:          getEnvFloat("SAMPLER_QUALITY", 0),
		SamplerMaxWidth:         getEnvInt("SAMPLER_MAX_WIDTH", 0),
		SamplerMaxHeight:        getEnvInt("SAMPLER_MAX_HEIGHT", 0),
		SamplerChangeThreshold:  getEnvFloat("SAMPLER_CHANGE_THRESHOLD", 0),
		SamplerMinFrameInterval: time.Duration(getEnvInt("SAMPLER_MIN_FRAME_INTERVAL_MS", 0)) * time.Millisecond,

		FrameTTL: time.Duration(getEnvInt("FRAME_TTL_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
