package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// defaultSessionSecret 仅用于本地开发，生产环境必须覆盖
const defaultSessionSecret = "secret_key_change_me"

type Config struct {
	Port           string        `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SiteURL        string        `mapstructure:"site_url"`
	PageSize       int           `mapstructure:"page_size"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// RenderWait 详情页等待数据的最长时间，超时则先返回加载骨架
	RenderWait time.Duration `mapstructure:"render_wait"`

	Cache struct {
		Size int           `mapstructure:"size"`
		TTL  time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`

	Views struct {
		Workers   int `mapstructure:"workers"`
		QueueSize int `mapstructure:"queue_size"`
	} `mapstructure:"views"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("api_base_url", "http://localhost:8000")
	v.SetDefault("session_secret", defaultSessionSecret)
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("page_size", 15)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("render_wait", 300*time.Millisecond)
	v.SetDefault("cache.size", 500)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("views.workers", 2)
	v.SetDefault("views.queue_size", 1000)
}

// Load 读取 .env、config.yml 与 FOLIO_ 前缀的环境变量，后者优先
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.IsProduction() {
		secret := strings.TrimSpace(c.SessionSecret)
		if secret == "" || secret == defaultSessionSecret {
			return fmt.Errorf("session_secret must be set in production")
		}
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	if c.PageSize <= 0 {
		c.PageSize = 15
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 500
	}
	if c.Views.Workers <= 0 {
		c.Views.Workers = 1
	}
	if c.Views.QueueSize <= 0 {
		c.Views.QueueSize = 1000
	}
	return nil
}
