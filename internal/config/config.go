package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config is the configuration of the bindsim command.
type Config struct {
	Device   DeviceConfig   `mapstructure:"device"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Workload WorkloadConfig `mapstructure:"workload"`
	Serve    ServeConfig    `mapstructure:"serve"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DeviceConfig sets the limits reported by the host device.
type DeviceConfig struct {
	MaxUniformBufferBindings int `mapstructure:"max_uniform_buffer_bindings"`
	MaxTextureUnits          int `mapstructure:"max_texture_units"`
}

type EngineConfig struct {
	// Zero means the device limit.
	MaxUniformBufferUnits int  `mapstructure:"max_uniform_buffer_units"`
	MaxTextureUnits       int  `mapstructure:"max_texture_units"`
	Debug                 bool `mapstructure:"debug"`
}

type WorkloadConfig struct {
	Frames    int   `mapstructure:"frames"`
	Materials int   `mapstructure:"materials"`
	Textures  int   `mapstructure:"textures"`
	Draws     int   `mapstructure:"draws"`
	Seed      int64 `mapstructure:"seed"`
}

type ServeConfig struct {
	Port      int    `mapstructure:"port"`
	UseTLS    bool   `mapstructure:"use_tls"`
	StaticDir string `mapstructure:"static_dir"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			MaxUniformBufferBindings: 72,
			MaxTextureUnits:          32,
		},
		Workload: WorkloadConfig{
			Frames:    120,
			Materials: 24,
			Textures:  16,
			Draws:     64,
			Seed:      1,
		},
		Serve: ServeConfig{
			Port:      8080,
			StaticDir: "static",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from cfgFile, or bindsim.yaml in the working
// directory, then from BINDSIM_ environment variables.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("bindsim")
	}

	v.SetEnvPrefix("BINDSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Device.MaxUniformBufferBindings < 1 || c.Device.MaxTextureUnits < 1 {
		return errors.New("device limits must be positive")
	}
	if c.Engine.MaxUniformBufferUnits < 0 || c.Engine.MaxTextureUnits < 0 {
		return errors.New("engine unit overrides must not be negative")
	}
	if c.Workload.Frames < 0 || c.Workload.Draws < 0 {
		return errors.New("workload.frames and workload.draws must not be negative")
	}
	if c.Workload.Materials < 1 {
		return errors.New("workload.materials must be at least 1")
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("device.max_uniform_buffer_bindings", cfg.Device.MaxUniformBufferBindings)
	v.SetDefault("device.max_texture_units", cfg.Device.MaxTextureUnits)

	v.SetDefault("engine.max_uniform_buffer_units", cfg.Engine.MaxUniformBufferUnits)
	v.SetDefault("engine.max_texture_units", cfg.Engine.MaxTextureUnits)
	v.SetDefault("engine.debug", cfg.Engine.Debug)

	v.SetDefault("workload.frames", cfg.Workload.Frames)
	v.SetDefault("workload.materials", cfg.Workload.Materials)
	v.SetDefault("workload.textures", cfg.Workload.Textures)
	v.SetDefault("workload.draws", cfg.Workload.Draws)
	v.SetDefault("workload.seed", cfg.Workload.Seed)

	v.SetDefault("serve.port", cfg.Serve.Port)
	v.SetDefault("serve.use_tls", cfg.Serve.UseTLS)
	v.SetDefault("serve.static_dir", cfg.Serve.StaticDir)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
