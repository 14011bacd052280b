package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/velvetlane/storefront/internal/constants"
)

type Application struct {
	Env            string   `mapstructure:"env"             json:"env"`
	Host           string   `mapstructure:"host"            json:"host"`
	ClientURL      string   `mapstructure:"client_url"      json:"client_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins"`
	Port           int      `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"password"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type ContentRepo struct {
	BaseURL  string `mapstructure:"base_url"  json:"base_url"`
	APIToken string `mapstructure:"api_token" json:"-"`
}

type Payment struct {
	BaseURL    string `mapstructure:"base_url"    json:"base_url"`
	SecretKey  string `mapstructure:"secret_key"  json:"-"`
	APIVersion string `mapstructure:"api_version" json:"api_version"`
}

type RateLimit struct {
	Store  string        `mapstructure:"store"  json:"store"`
	Limit  int           `mapstructure:"limit"  json:"limit"`
	Window time.Duration `mapstructure:"window" json:"window"`
}

type Smtp struct {
	Host     string `mapstructure:"host"     json:"host"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"-"`
	Mailbox  string `mapstructure:"mailbox"  json:"mailbox"`
	Port     int    `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	ContentRepo `mapstructure:"content_repo" json:"content_repo"`
	Payment     `mapstructure:"payment"      json:"payment"`
	RateLimit   `mapstructure:"rate_limit"   json:"rate_limit"`
	Smtp        `mapstructure:"smtp"         json:"smtp"`
	Cache       `mapstructure:"cache"        json:"cache"`
	Application `mapstructure:"application"  json:"application"`
	Otel        `mapstructure:"otel"         json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func Get(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "main Get").
			Str(constants.KEY_PROCESS, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.SetDefault("rate_limit.store", "memory")
		viper.SetDefault("rate_limit.limit", 10)
		viper.SetDefault("rate_limit.window", 10*time.Minute)
		viper.SetDefault("payment.base_url", "https://api.stripe.com")
		viper.SetDefault("payment.api_version", "2024-06-20")
		viper.AutomaticEnv()

		logger = logger.With().Str(constants.KEY_PROCESS, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(constants.KEY_PROCESS, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(constants.KEY_CONFIG, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
