package conf

import (
	"fmt"
	"time"

	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/database"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/logger"
	"github.com/gubbigubbi/easy-social-sharing/internal/pkg/redis"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	Log      logger.Config   `mapstructure:"log"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Sharing  SharingConfig   `mapstructure:"sharing"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AuthConfig configures the signed action tokens issued to share widgets
type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	TokenIssuer string        `mapstructure:"token_issuer"`
}

// SharingConfig holds the share-count policy knobs. Everything the registry
// and cache manager need is injected from here, never read ambiently.
type SharingConfig struct {
	// Restrict listing/totals to networks with a counting API
	APISupportNetworksOnly bool `mapstructure:"api_support_networks_only"`

	// Age after which a cached count is stale
	CacheInterval time.Duration `mapstructure:"cache_interval"`

	// Upper bound for a single external count fetch
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// Concurrent count lookups behind a total-count request
	FetchWorkers int `mapstructure:"fetch_workers"`

	// Label served for unknown or empty network names
	DefaultNetworkLabel string `mapstructure:"default_network_label"`

	// Networks with a supported counting API and how to query them
	APINetworks []APINetworkConfig `mapstructure:"api_networks"`
}

// APINetworkConfig describes how to fetch a share count for one network.
// The endpoint is a template; {url} is replaced with the escaped page URL.
type APINetworkConfig struct {
	Name      string `mapstructure:"name"`
	Endpoint  string `mapstructure:"endpoint"`
	CountPath string `mapstructure:"count_path"` // gjson path into the response body
}

// APISupportedNames returns the names of networks with a counting API,
// in configuration order.
func (c *SharingConfig) APISupportedNames() []string {
	names := make([]string, 0, len(c.APINetworks))
	for _, n := range c.APINetworks {
		names = append(names, n.Name)
	}
	return names
}

func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "console")

	viper.SetDefault("auth.token_ttl", 12*time.Hour)
	viper.SetDefault("auth.token_issuer", "easy-social-sharing")

	viper.SetDefault("sharing.cache_interval", 6*time.Hour)
	viper.SetDefault("sharing.fetch_timeout", 10*time.Second)
	viper.SetDefault("sharing.fetch_workers", 8)
	viper.SetDefault("sharing.default_network_label", "Facebook")
}
