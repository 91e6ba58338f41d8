package config

import (
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

const defaultConfigPath = "./cmd/config/config.yml"

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Source string `yaml:"source" env:"DB_SOURCE" env-required:"true"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL    time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTokenTTL   time.Duration `yaml:"refresh_ttl" env-default:"720h"` // 30 дней
	CookieAccessName  string        `yaml:"cookie_access_name" env-default:"access_token"`
	CookieRefreshName string        `yaml:"cookie_refresh_name" env-default:"refresh_token"`
	CookieDomain      string        `yaml:"cookie_domain" env-default:""`
	CookieSecure      bool          `yaml:"cookie_secure" env-default:"false"`
	CookieSameSite    string        `yaml:"cookie_same_site" env-default:"lax"` // strict, lax, none
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

// PricingConfig - параметры пайплайна оценки стоимости
type PricingConfig struct {
	// Минимальное число активных котировок на позицию, чтобы заявка считалась оцененной
	MinQuotationsPerItem  int `yaml:"min_quotations_per_item" env-default:"3"`
	NotificationQueueSize int `yaml:"notification_queue_size" env-default:"256"`
}

type Config struct {
	IsDebug *bool `yaml:"is_debug" env-required:"true"`
	Listen  struct {
		Type   string `yaml:"type" env-default:"port"`
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"8080"`
	} `yaml:"listen"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

var instance *Config
var once sync.Once

func GetConfig() *Config {
	once.Do(func() {
		logger := logging.GetLogger()
		logger.Info("read application configuration")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = defaultConfigPath
		}

		instance = &Config{}
		if err := cleanenv.ReadConfig(configPath, instance); err != nil {
			help, _ := cleanenv.GetDescription(instance, nil)
			logger.Info(help)
			logger.Fatal(err)
		}
	})

	return instance
}
