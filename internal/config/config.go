// Package config loads daemon configuration from a file, the environment and
// built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sweeney/button-stopwatch/internal/gpio"
)

// EnvPrefix is prepended to every environment override, e.g.
// STOPWATCH_MQTT_BROKER.
const EnvPrefix = "STOPWATCH"

type Config struct {
	GPIO    GPIOConfig    `mapstructure:"gpio"`
	Timing  TimingConfig  `mapstructure:"timing"`
	Edge    EdgeConfig    `mapstructure:"edge"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type GPIOConfig struct {
	Chip      string        `mapstructure:"chip"`
	ButtonPin int           `mapstructure:"button_pin"`
	LED0Pin   int           `mapstructure:"led0_pin"`
	LED1Pin   int           `mapstructure:"led1_pin"`
	Debounce  time.Duration `mapstructure:"debounce"` // kernel debounce; 0 disables
}

type TimingConfig struct {
	DisplayTick   time.Duration `mapstructure:"display_tick"`
	IndicatorTick time.Duration `mapstructure:"indicator_tick"`
	ControlTick   time.Duration `mapstructure:"control_tick"`
	MediumHold    time.Duration `mapstructure:"medium_hold"`
	LongHold      time.Duration `mapstructure:"long_hold"`
}

type EdgeConfig struct {
	QueueDepth int `mapstructure:"queue_depth"`
}

type MQTTConfig struct {
	Broker    string        `mapstructure:"broker"` // empty disables MQTT
	ClientID  string        `mapstructure:"client_id"`
	Heartbeat time.Duration `mapstructure:"heartbeat"` // 0 disables heartbeats
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the status server
}

type DisplayConfig struct {
	Output string `mapstructure:"output"` // "auto", "stdout" or "none"
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// Pins returns the GPIO line assignment.
func (c *Config) Pins() gpio.Pins {
	return gpio.Pins{
		Chip:     c.GPIO.Chip,
		Button:   c.GPIO.ButtonPin,
		LED0:     c.GPIO.LED0Pin,
		LED1:     c.GPIO.LED1Pin,
		Debounce: c.GPIO.Debounce,
	}
}

// Load reads configuration from configPath (optional; empty skips the file),
// applies STOPWATCH_* environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gpio.chip", gpio.DefaultChip)
	v.SetDefault("gpio.button_pin", gpio.DefaultPinSW0)
	v.SetDefault("gpio.led0_pin", gpio.DefaultPinLED0)
	v.SetDefault("gpio.led1_pin", gpio.DefaultPinLED1)
	v.SetDefault("gpio.debounce", "0s")

	v.SetDefault("timing.display_tick", "50ms")
	v.SetDefault("timing.indicator_tick", "10ms")
	v.SetDefault("timing.control_tick", "10ms")
	v.SetDefault("timing.medium_hold", "2s")
	v.SetDefault("timing.long_hold", "4s")

	v.SetDefault("edge.queue_depth", 2)

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "button-stopwatch")
	v.SetDefault("mqtt.heartbeat", "15m")

	v.SetDefault("http.addr", ":8080")

	v.SetDefault("display.output", "auto")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func validate(cfg *Config) error {
	if cfg.GPIO.Chip == "" {
		return fmt.Errorf("gpio chip is required")
	}
	pins := map[string]int{
		"button": cfg.GPIO.ButtonPin,
		"led0":   cfg.GPIO.LED0Pin,
		"led1":   cfg.GPIO.LED1Pin,
	}
	seen := make(map[int]string, len(pins))
	for _, name := range []string{"button", "led0", "led1"} {
		pin := pins[name]
		if pin < 0 {
			return fmt.Errorf("invalid %s pin: %d", name, pin)
		}
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%s and %s share pin %d", other, name, pin)
		}
		seen[pin] = name
	}
	if cfg.GPIO.Debounce < 0 {
		return fmt.Errorf("invalid debounce: %v", cfg.GPIO.Debounce)
	}

	for name, d := range map[string]time.Duration{
		"display_tick":   cfg.Timing.DisplayTick,
		"indicator_tick": cfg.Timing.IndicatorTick,
		"control_tick":   cfg.Timing.ControlTick,
		"medium_hold":    cfg.Timing.MediumHold,
		"long_hold":      cfg.Timing.LongHold,
	} {
		if d <= 0 {
			return fmt.Errorf("timing.%s must be positive, got %v", name, d)
		}
	}
	if cfg.Timing.LongHold <= cfg.Timing.MediumHold {
		return fmt.Errorf("long hold (%v) must exceed medium hold (%v)", cfg.Timing.LongHold, cfg.Timing.MediumHold)
	}

	if cfg.Edge.QueueDepth <= 0 {
		return fmt.Errorf("edge queue depth must be positive, got %d", cfg.Edge.QueueDepth)
	}

	if cfg.MQTT.Heartbeat < 0 {
		return fmt.Errorf("invalid heartbeat: %v", cfg.MQTT.Heartbeat)
	}
	if cfg.MQTT.Broker != "" && cfg.MQTT.ClientID == "" {
		return fmt.Errorf("mqtt client id is required when a broker is set")
	}

	switch cfg.Display.Output {
	case "auto", "stdout", "none":
	default:
		return fmt.Errorf("unknown display output %q", cfg.Display.Output)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Logging.Format)
	}

	return nil
}
