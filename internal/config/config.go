// Package config loads dualtone settings from defaults, an optional YAML file,
// DUALTONE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/dsp"
)

const (
	// EnvPrefix prefixes every environment override, e.g. DUALTONE_SERVER_ADDR.
	EnvPrefix = "DUALTONE"
	fileName  = "dualtone"
)

// Config represents the application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Codec   CodecConfig   `mapstructure:"codec"`
	Decode  DecodeConfig  `mapstructure:"decode"`
	Display DisplayConfig `mapstructure:"display"`
	Player  PlayerConfig  `mapstructure:"player"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig contains HTTP service settings
type ServerConfig struct {
	Addr                 string        `mapstructure:"addr"`
	ReadTimeout          time.Duration `mapstructure:"read_timeout"`
	WriteTimeout         time.Duration `mapstructure:"write_timeout"`
	DecodeTimeout        time.Duration `mapstructure:"decode_timeout"`
	MaxUploadBytes       int64         `mapstructure:"max_upload_bytes"`
	MaxConcurrentDecodes int           `mapstructure:"max_concurrent_decodes"`
	MDNS                 MDNSConfig    `mapstructure:"mdns"`
}

type MDNSConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// CodecConfig controls the layout of encoded sequences
type CodecConfig struct {
	ToneDuration time.Duration `mapstructure:"tone_duration"`
	GapDuration  time.Duration `mapstructure:"gap_duration"`
}

// DecodeConfig tunes the sliding-window detector
type DecodeConfig struct {
	Window      time.Duration `mapstructure:"window"`
	Hop         float64       `mapstructure:"hop"`
	SilenceRMS  float64       `mapstructure:"silence_rms"`
	MinPeak     float64       `mapstructure:"min_peak"`
	ToleranceHz float64       `mapstructure:"tolerance_hz"`
	MinRun      int           `mapstructure:"min_run"`
}

// DisplayConfig controls what a key press shows
type DisplayConfig struct {
	Duration  time.Duration `mapstructure:"duration"`
	MaxFreqHz float64       `mapstructure:"max_freq_hz"`
	Periods   int           `mapstructure:"periods"`
}

type PlayerConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.decode_timeout", "10s")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.max_concurrent_decodes", 4)
	v.SetDefault("server.mdns.enabled", false)
	v.SetDefault("server.mdns.service_name", "dualtone")

	codecDefaults := codec.DefaultOptions()
	v.SetDefault("codec.tone_duration", codecDefaults.ToneDuration)
	v.SetDefault("codec.gap_duration", codecDefaults.GapDuration)

	decodeDefaults := codec.DefaultDecodeOptions()
	v.SetDefault("decode.window", decodeDefaults.Window)
	v.SetDefault("decode.hop", decodeDefaults.Hop)
	v.SetDefault("decode.silence_rms", decodeDefaults.SilenceRMS)
	v.SetDefault("decode.min_peak", decodeDefaults.MinPeak)
	v.SetDefault("decode.tolerance_hz", decodeDefaults.ToleranceHz)
	v.SetDefault("decode.min_run", decodeDefaults.MinRun)

	v.SetDefault("display.duration", time.Duration(dsp.DefaultDuration*float64(time.Second)))
	v.SetDefault("display.max_freq_hz", dsp.MaxDisplayFreq)
	v.SetDefault("display.periods", 3)

	v.SetDefault("player.enabled", true)
	v.SetDefault("player.volume", 0.8)
}

// NewViper returns a viper instance with defaults and environment overrides
// wired, reading configFile when set or searching the usual locations
// otherwise. A missing config file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
		v.AddConfigPath("/etc/" + fileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.DecodeTimeout <= 0 {
		return fmt.Errorf("server decode_timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max_upload_bytes must be positive")
	}
	if c.Server.MaxConcurrentDecodes <= 0 {
		return fmt.Errorf("server max_concurrent_decodes must be positive")
	}
	if c.Server.MDNS.Enabled && c.Server.MDNS.ServiceName == "" {
		return fmt.Errorf("server mdns.service_name is required when mdns is enabled")
	}
	if _, err := codec.NewEncoder(c.Codec.Options()); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if err := c.Decode.Options().Validate(); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := c.Decode.Options().CheckLayout(c.Codec.Options()); err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if c.Display.Duration <= 0 {
		return fmt.Errorf("display duration must be positive")
	}
	if c.Display.MaxFreqHz <= 0 {
		return fmt.Errorf("display max_freq_hz must be positive")
	}
	if c.Display.Periods < 0 {
		return fmt.Errorf("display periods cannot be negative")
	}
	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return fmt.Errorf("player volume must be between 0 and 1")
	}
	return nil
}

// Options converts the section into encoder options at dsp.SampleRate.
func (c CodecConfig) Options() codec.Options {
	return codec.Options{
		ToneDuration: c.ToneDuration,
		GapDuration:  c.GapDuration,
		SampleRate:   dsp.SampleRate,
	}
}

// Options converts the section into decoder options.
func (c DecodeConfig) Options() codec.DecodeOptions {
	return codec.DecodeOptions{
		Window:        c.Window,
		Hop:           c.Hop,
		TransformSize: dsp.TransformSize,
		SilenceRMS:    c.SilenceRMS,
		MinPeak:       c.MinPeak,
		ToleranceHz:   c.ToleranceHz,
		MinRun:        c.MinRun,
	}
}
