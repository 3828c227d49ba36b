package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
port: "9000"
log_level: debug
db:
  path: /tmp/bridge.db
auth:
  signing_key: secret
  token_ttl: 30m
mqtt:
  broker: tcp://localhost:1883
devices:
  - name: home
    base_url: http://192.168.1.50/
    api_key: abc
    poll_interval: 15
    zone_count_override: 4
  - name: cabin
    base_url: http://cabin.local
    api_key: def
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.LogLevel != "debug" || cfg.DB.Path != "/tmp/bridge.db" {
		t.Fatalf("unexpected top level: %+v", cfg)
	}
	if !cfg.Auth.Enabled || cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected auth: %+v", cfg.Auth)
	}
	if !cfg.MQTT.Enabled() || cfg.MQTT.TopicPrefix != DefaultTopicPrefix || cfg.MQTT.ClientID != DefaultMQTTClientID {
		t.Fatalf("unexpected mqtt: %+v", cfg.MQTT)
	}

	devs := cfg.DeviceConfigs()
	if len(devs) != 2 {
		t.Fatalf("want 2 devices, got %d", len(devs))
	}
	home, cabin := devs[0], devs[1]
	if home.PollInterval != 15*time.Second || home.ZoneCountOverride != 4 || home.Timeout != DefaultTimeout {
		t.Fatalf("unexpected home: %+v", home)
	}
	if cabin.PollInterval != DefaultPollSeconds*time.Second || cabin.ZoneCountOverride != 0 {
		t.Fatalf("cabin defaults not applied: %+v", cabin)
	}
}

func TestLoad_DirectoryAndEnvPath(t *testing.T) {
	path := writeConfig(t, validYAML)

	if _, err := Load(filepath.Dir(path)); err != nil {
		t.Fatalf("Load(dir): %v", err)
	}

	t.Setenv(EnvConfigPath, path)
	if _, err := Load(""); err != nil {
		t.Fatalf("Load via %s: %v", EnvConfigPath, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, validYAML)
	t.Setenv("MESSANA_PORT", "7000")
	t.Setenv("MESSANA_AUTH_ENABLED", "false")
	t.Setenv("MESSANA_AUTH_SIGNING_KEY", "")
	t.Setenv("MESSANA_MQTT_BROKER", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7000" || cfg.Auth.Enabled || cfg.MQTT.Enabled() {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:     "8080",
			LogLevel: "info",
			Auth:     AuthConfig{Enabled: true, SigningKey: "k", TokenTTL: time.Hour},
			MQTT:     MQTTConfig{TopicPrefix: "messana"},
			Devices: []DeviceConf{{
				Name: "home", BaseURL: "http://h", APIKey: "a",
				PollInterval: 30, Timeout: time.Second,
			}},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "log_level"},
		{name: "missing signing key", mutate: func(c *Config) { c.Auth.SigningKey = "" }, wantErr: "signing_key"},
		{name: "signing key optional without auth", mutate: func(c *Config) { c.Auth.Enabled = false; c.Auth.SigningKey = "" }},
		{name: "mqtt without prefix", mutate: func(c *Config) { c.MQTT = MQTTConfig{Broker: "tcp://b:1883", TopicPrefix: "/"} }, wantErr: "topic_prefix"},
		{name: "no devices", mutate: func(c *Config) { c.Devices = nil }, wantErr: "no devices"},
		{name: "empty name", mutate: func(c *Config) { c.Devices[0].Name = "" }, wantErr: "name is empty"},
		{name: "duplicate name", mutate: func(c *Config) { c.Devices = append(c.Devices, c.Devices[0]) }, wantErr: "duplicate"},
		{name: "empty base url", mutate: func(c *Config) { c.Devices[0].BaseURL = "" }, wantErr: "base_url"},
		{name: "empty api key", mutate: func(c *Config) { c.Devices[0].APIKey = "" }, wantErr: "api_key"},
		{name: "poll too fast", mutate: func(c *Config) { c.Devices[0].PollInterval = 4 }, wantErr: "poll_interval"},
		{name: "poll too slow", mutate: func(c *Config) { c.Devices[0].PollInterval = 3601 }, wantErr: "poll_interval"},
		{name: "poll at bounds", mutate: func(c *Config) { c.Devices[0].PollInterval = MinPollSeconds }},
		{name: "override too large", mutate: func(c *Config) { c.Devices[0].ZoneCountOverride = 257 }, wantErr: "zone_count_override"},
		{name: "negative override", mutate: func(c *Config) { c.Devices[0].ZoneCountOverride = -1 }, wantErr: "zone_count_override"},
		{name: "override at bound", mutate: func(c *Config) { c.Devices[0].ZoneCountOverride = MaxZoneCount }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Config{LogLevel: "info", Auth: AuthConfig{TokenTTL: time.Hour}, Devices: []DeviceConf{{PollInterval: 30}}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"port", "name is empty", "base_url", "api_key"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
