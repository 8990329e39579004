package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the calendar endpoint used when api.base_url is unset.
// {month} is replaced with the YYYYMM being queried.
const DefaultBaseURL = "http://tool.bitefu.net/jiari/?d={month}&info=1"

// Config represents application configuration
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	MQTT          MQTTConfig          `mapstructure:"mqtt"`
	HomeAssistant HomeAssistantConfig `mapstructure:"home_assistant"`
	Daemon        DaemonConfig        `mapstructure:"daemon"`
}

// APIConfig represents the calendar API configuration
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MQTTConfig represents the MQTT sink configuration.
// The sink is enabled when broker is set.
type MQTTConfig struct {
	Broker            string `mapstructure:"broker"`
	ClientID          string `mapstructure:"client_id"`
	Username          string `mapstructure:"username"`
	Password          string `mapstructure:"password"`
	StateTopic        string `mapstructure:"state_topic"`
	AttributesTopic   string `mapstructure:"attributes_topic"`
	AvailabilityTopic string `mapstructure:"availability_topic"`
	QoS               int    `mapstructure:"qos"`
	Retain            bool   `mapstructure:"retain"`
}

// HomeAssistantConfig represents the HA REST sink configuration.
// The sink is enabled when url is set.
type HomeAssistantConfig struct {
	URL      string `mapstructure:"url"`
	Token    string `mapstructure:"token"`
	EntityID string `mapstructure:"entity_id"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime  string `mapstructure:"daily_time"` // HH:MM host-local time to refresh
	LogFile    string `mapstructure:"log_file"`
	LogLevel   string `mapstructure:"log_level"`
	SystemTray bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.hacs-chinese-holidays")
		v.AddConfigPath("/etc/hacs-chinese-holidays")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL != "" && !strings.Contains(c.API.BaseURL, "{month}") {
		return fmt.Errorf("api.base_url must contain a {month} placeholder")
	}

	if c.MQTT.Broker != "" {
		if c.MQTT.StateTopic == "" {
			return fmt.Errorf("mqtt.state_topic is required when mqtt.broker is set")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
	}

	if c.HomeAssistant.URL != "" {
		if c.HomeAssistant.Token == "" {
			return fmt.Errorf("home_assistant.token is required when home_assistant.url is set")
		}
		if c.HomeAssistant.EntityID == "" {
			return fmt.Errorf("home_assistant.entity_id is required when home_assistant.url is set")
		}
	}

	return nil
}

// GetBaseURL returns the calendar API base URL
func (c *APIConfig) GetBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// GetClientID returns the MQTT client ID
func (c *MQTTConfig) GetClientID() string {
	if c.ClientID == "" {
		return "chinese-holidays"
	}
	return c.ClientID
}

// GetDailyTime returns the configured daily refresh time (host-local).
// Returns hour and minute (0-23, 0-59). Default: 00:05
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	if c.DailyTime == "" {
		return 0, 5
	}

	var h, m int
	_, err := fmt.Sscanf(c.DailyTime, "%d:%d", &h, &m)
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 5
	}
	return h, m
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.MQTT.Password = os.ExpandEnv(c.MQTT.Password)
	c.HomeAssistant.Token = os.ExpandEnv(c.HomeAssistant.Token)
}
