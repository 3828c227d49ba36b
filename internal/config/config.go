// Package config loads the bridge configuration from configs/config.yml and
// MESSANA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/service"

	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "MESSANA"
	EnvConfigPath = "MESSANA_CONFIG"

	defaultConfigDir  = "configs"
	defaultConfigName = "config"

	DefaultPort         = "8080"
	DefaultDBPath       = "messana.db"
	DefaultTokenTTL     = time.Hour
	DefaultTopicPrefix  = "messana"
	DefaultMQTTClientID = "messana-bridge"
	DefaultPollSeconds  = 30
	DefaultTimeout      = 10 * time.Second

	MinPollSeconds = 5
	MaxPollSeconds = 3600
	MaxZoneCount   = 256
)

type Config struct {
	Port     string       `mapstructure:"port"`
	LogLevel string       `mapstructure:"log_level"`
	DB       DBConfig     `mapstructure:"db"`
	Auth     AuthConfig   `mapstructure:"auth"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`
	Devices  []DeviceConf `mapstructure:"devices"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// MQTTConfig is disabled when Broker is empty.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// DeviceConf is one entry of the devices list. PollInterval is in seconds.
type DeviceConf struct {
	Name              string        `mapstructure:"name"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	PollInterval      int           `mapstructure:"poll_interval"`
	ZoneCountOverride int           `mapstructure:"zone_count_override"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Load reads the config file and applies environment overrides, defaults and
// validation. path may name a file or a directory holding config.yml; when
// empty, MESSANA_CONFIG is consulted and then ./configs.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		v.AddConfigPath(defaultConfigDir)
		v.SetConfigName(defaultConfigName)
	case ext == ".yml" || ext == ".yaml":
		v.SetConfigFile(path)
	default:
		v.AddConfigPath(path)
		v.SetConfigName(defaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDeviceDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", DefaultTokenTTL)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", DefaultMQTTClientID)
	v.SetDefault("mqtt.topic_prefix", DefaultTopicPrefix)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
}

// applyDeviceDefaults fills per-device fields viper defaults cannot reach.
func (c *Config) applyDeviceDefaults() {
	for i := range c.Devices {
		d := &c.Devices[i]
		d.Name = strings.TrimSpace(d.Name)
		d.BaseURL = strings.TrimSpace(d.BaseURL)
		if d.PollInterval == 0 {
			d.PollInterval = DefaultPollSeconds
		}
		if d.Timeout == 0 {
			d.Timeout = DefaultTimeout
		}
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key is required when auth is enabled"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.MQTT.Enabled() && strings.Trim(c.MQTT.TopicPrefix, "/ ") == "" {
		errs = append(errs, errors.New("mqtt.topic_prefix is empty"))
	}

	if len(c.Devices) == 0 {
		errs = append(errs, errors.New("no devices configured"))
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		label := fmt.Sprintf("devices[%d]", i)
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is empty", label))
		} else {
			label = fmt.Sprintf("devices[%d] %q", i, d.Name)
			if seen[d.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate name", label))
			}
			seen[d.Name] = true
		}
		if d.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s: base_url is empty", label))
		}
		if d.APIKey == "" {
			errs = append(errs, fmt.Errorf("%s: api_key is empty", label))
		}
		if d.PollInterval < MinPollSeconds || d.PollInterval > MaxPollSeconds {
			errs = append(errs, fmt.Errorf("%s: poll_interval %d outside %d..%d seconds", label, d.PollInterval, MinPollSeconds, MaxPollSeconds))
		}
		if d.ZoneCountOverride < 0 || d.ZoneCountOverride > MaxZoneCount {
			errs = append(errs, fmt.Errorf("%s: zone_count_override %d outside 0..%d", label, d.ZoneCountOverride, MaxZoneCount))
		}
		if d.Timeout < 0 {
			errs = append(errs, fmt.Errorf("%s: timeout must be positive", label))
		}
	}
	return errors.Join(errs...)
}

// DeviceConfigs converts the devices list for the hub.
func (c *Config) DeviceConfigs() []service.DeviceConfig {
	out := make([]service.DeviceConfig, 0, len(c.Devices))
	for _, d := range c.Devices {
		out = append(out, service.DeviceConfig{
			Name:              d.Name,
			BaseURL:           d.BaseURL,
			APIKey:            d.APIKey,
			PollInterval:      time.Duration(d.PollInterval) * time.Second,
			ZoneCountOverride: d.ZoneCountOverride,
			Timeout:           d.Timeout,
		})
	}
	return out
}
