package configuration

import (
	"fmt"
	"os"
	"strconv"

	"feedhub/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	RedisClient RedisClient `json:"redisClient"`
	Ledger      Ledger      `json:"ledger"`
	Cache       Cache       `json:"cache"`
	YouTube     YouTube     `json:"youtube"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port int `json:"port"`
	// RateLimitPerSecond bounds outbound API calls; 0 disables the limiter.
	RateLimitPerSecond float64 `json:"rateLimitPerSecond"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	Username     string `json:"username"`
	DatabaseName string `json:"databaseName"`
}

type Ledger struct {
	// Path of the bbolt file holding the playlist ledger. Empty means
	// memory-only (nothing survives a restart).
	Path string `json:"path"`
}

// Cache holds TTL overrides in seconds; zero falls back to the defaults
// (600 for list-like resources and computed feeds, 300 for uploads and
// detail batches).
type Cache struct {
	ListTTLSeconds   int `json:"listTTLSeconds"`
	DetailTTLSeconds int `json:"detailTTLSeconds"`
	FeedTTLSeconds   int `json:"feedTTLSeconds"`
}

type YouTube struct {
	APIKey       string   `json:"apiKey"`
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
	// SavedPlaylistName is the well-known playlist used when the user saves
	// a video without picking a target.
	SavedPlaylistName string `json:"savedPlaylistName"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
}

func LoadConfig() {
	name := configName()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func configName() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(c *Config) {
	if c.App.Port == 0 {
		if v := os.Getenv("PORT"); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.App.Port = port
			}
		}
	}
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = os.Getenv("LEDGER_PATH")
	}
	if c.RedisClient.Host == "" {
		c.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if c.RedisClient.Port == "" {
		c.RedisClient.Port = os.Getenv("REDIS_PORT")
	}
	if c.RedisClient.Password == "" {
		c.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
	if c.YouTube.SavedPlaylistName == "" {
		c.YouTube.SavedPlaylistName = "Saved videos"
	}
}
