package config

import (
    "time"

    "github.com/spf13/viper"
)

type Config struct {
    Port            string
    LogLevel        string
    DatabaseURL     string
    RedisAddr       string
    MandaBemBaseURL string
    EcomplusBaseURL string
    EcomplusAppID   string
    TagDedupTTL     time.Duration
}

// Load reads configuration from the environment with sane defaults.
func Load() Config {
    v := viper.New()
    v.AutomaticEnv()
    v.SetDefault("PORT", "8080")
    v.SetDefault("LOG_LEVEL", "info")
    v.SetDefault("MANDABEM_BASE_URL", "https://mandabem.com.br")
    v.SetDefault("ECOMPLUS_BASE_URL", "https://api.e-com.plus/v1")
    v.SetDefault("TAG_DEDUP_TTL", "24h")

    return Config{
        Port:            v.GetString("PORT"),
        LogLevel:        v.GetString("LOG_LEVEL"),
        DatabaseURL:     v.GetString("DATABASE_URL"),
        RedisAddr:       v.GetString("REDIS_ADDR"),
        MandaBemBaseURL: v.GetString("MANDABEM_BASE_URL"),
        EcomplusBaseURL: v.GetString("ECOMPLUS_BASE_URL"),
        EcomplusAppID:   v.GetString("ECOMPLUS_APP_ID"),
        TagDedupTTL:     v.GetDuration("TAG_DEDUP_TTL"),
    }
}
