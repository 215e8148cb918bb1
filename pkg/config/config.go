package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport names accepted in DeviceConfig.Transport.
const (
	TransportTCP    = "tcp"
	TransportSerial = "serial"
	TransportMock   = "mock"
)

// Config represents the application configuration.
type Config struct {
	Editor EditorConfig `yaml:"editor"`
	Chart  ChartConfig  `yaml:"chart"`
	Device DeviceConfig `yaml:"device"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Mock   MockConfig   `yaml:"mock"`
}

// EditorConfig contains snapping preferences of the program editor.
type EditorConfig struct {
	TimeSnap  int  `yaml:"time_snap"`  // Minutes, 5 or 15
	ValueSnap bool `yaml:"value_snap"` // Snap intensities to 5 % steps
}

// ChartConfig contains per-channel display settings.
type ChartConfig struct {
	Channels []ChannelConfig `yaml:"channels"`
}

// ChannelConfig names and colours one LED channel.
type ChannelConfig struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"` // "#rrggbb"
}

// DeviceConfig contains the light controller connection settings.
type DeviceConfig struct {
	Transport string        `yaml:"transport"` // tcp, serial or mock
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Serial    SerialConfig  `yaml:"serial"`
	DeviceID  string        `yaml:"device_id"`
	Timeout   time.Duration `yaml:"timeout"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// StoreConfig locates the preset database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging options.
type LogConfig struct {
	Level    string `yaml:"level"` // trace, debug, info, warn, error, critical, off
	File     string `yaml:"file"`  // Empty disables the log file
	MaxRolls int    `yaml:"max_rolls"`
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Mode    string        `yaml:"mode"`    // Initial mode: manual or auto
	Latency time.Duration `yaml:"latency"` // Simulated round trip
}

// DefaultChannels are the labels and colours of the four LED channels.
var DefaultChannels = []ChannelConfig{
	{Label: "6500K CoolWhite + 455nm DeepBlue", Color: "#00ffd0"},
	{Label: "460nm DeepBlue + 480nm Blue", Color: "#1e6bff"},
	{Label: "400-420nm Violet + 445nm DeepBlue", Color: "#7a00ff"},
	{Label: "3000K WarmWhite + 665nm DeepRed", Color: "#ff7a00"},
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TimeSnap:  5,
			ValueSnap: false,
		},
		Chart: ChartConfig{
			Channels: append([]ChannelConfig(nil), DefaultChannels...),
		},
		Device: DeviceConfig{
			Transport: TransportTCP,
			Host:      "10.0.2.116",
			Port:      80,
			Serial: SerialConfig{
				Port: "COM3", // "/dev/ttyUSB0" on Linux
				Baud: 115200,
			},
			DeviceID: "R5S2A000188",
			Timeout:  2 * time.Second,
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDir(), "presets.db"),
		},
		Log: LogConfig{
			Level:    "info",
			File:     filepath.Join(defaultDir(), "logs", "reeflight.log"),
			MaxRolls: 8,
		},
		Mock: MockConfig{
			Mode:    "auto",
			Latency: 50 * time.Millisecond,
		},
	}
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "reeflight")
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Address returns the host:port of the TCP transport.
func (d DeviceConfig) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// ChannelLabels returns the four channel labels.
func (c ChartConfig) ChannelLabels() [4]string {
	var out [4]string
	for i := range out {
		if i < len(c.Channels) {
			out[i] = c.Channels[i].Label
		}
	}
	return out
}

// ChannelColors returns the configured channel colours.
func (c ChartConfig) ChannelColors() []string {
	out := make([]string, len(c.Channels))
	for i, ch := range c.Channels {
		out[i] = ch.Color
	}
	return out
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Editor.TimeSnap != 5 && c.Editor.TimeSnap != 15 {
		c.Editor.TimeSnap = def.Editor.TimeSnap
	}

	for i := range def.Chart.Channels {
		if i >= len(c.Chart.Channels) {
			c.Chart.Channels = append(c.Chart.Channels, def.Chart.Channels[i])
			continue
		}
		if c.Chart.Channels[i].Label == "" {
			c.Chart.Channels[i].Label = def.Chart.Channels[i].Label
		}
		if c.Chart.Channels[i].Color == "" {
			c.Chart.Channels[i].Color = def.Chart.Channels[i].Color
		}
	}
	c.Chart.Channels = c.Chart.Channels[:len(def.Chart.Channels)]

	switch c.Device.Transport {
	case TransportTCP, TransportSerial, TransportMock:
	default:
		c.Device.Transport = def.Device.Transport
	}
	if c.Device.Host == "" {
		c.Device.Host = def.Device.Host
	}
	if c.Device.Port == 0 {
		c.Device.Port = def.Device.Port
	}
	if c.Device.Serial.Port == "" {
		c.Device.Serial.Port = def.Device.Serial.Port
	}
	if c.Device.Serial.Baud == 0 {
		c.Device.Serial.Baud = def.Device.Serial.Baud
	}
	if c.Device.DeviceID == "" {
		c.Device.DeviceID = def.Device.DeviceID
	}
	if c.Device.Timeout == 0 {
		c.Device.Timeout = def.Device.Timeout
	}

	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.MaxRolls == 0 {
		c.Log.MaxRolls = def.Log.MaxRolls
	}

	if c.Mock.Mode == "" {
		c.Mock.Mode = def.Mock.Mode
	}
}
