package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/dualtone/internal/codec"
)

func loadFrom(t *testing.T, file string) (*Config, error) {
	t.Helper()
	v, err := NewViper(file)
	require.NoError(t, err)
	return Load(v)
}

func TestDefaultsAreValid(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadFrom(t, "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.DecodeTimeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 300*time.Millisecond, cfg.Display.Duration)
	assert.Equal(t, 3, cfg.Display.Periods)
	assert.Equal(t, codec.DefaultOptions(), cfg.Codec.Options())
	assert.Equal(t, codec.DefaultDecodeOptions(), cfg.Decode.Options())
	assert.False(t, cfg.Server.MDNS.Enabled)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:9000
  decode_timeout: 2s
  mdns:
    enabled: true
codec:
  tone_duration: 80ms
decode:
  min_run: 3
`), 0o644))

	cfg, err := loadFrom(t, path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.DecodeTimeout)
	assert.True(t, cfg.Server.MDNS.Enabled)
	assert.Equal(t, "dualtone", cfg.Server.MDNS.ServiceName)
	assert.Equal(t, 80*time.Millisecond, cfg.Codec.ToneDuration)
	assert.Equal(t, 50*time.Millisecond, cfg.Codec.GapDuration)
	assert.Equal(t, 3, cfg.Decode.MinRun)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dualtone.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: :9000\n"), 0o644))
	t.Setenv("DUALTONE_SERVER_ADDR", ":7000")
	t.Setenv("DUALTONE_PLAYER_VOLUME", "0.25")

	cfg, err := loadFrom(t, path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.InDelta(t, 0.25, cfg.Player.Volume, 1e-9)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero decode timeout", func(c *Config) { c.Server.DecodeTimeout = 0 }},
		{"no decode slots", func(c *Config) { c.Server.MaxConcurrentDecodes = 0 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
		{"mdns without name", func(c *Config) { c.Server.MDNS = MDNSConfig{Enabled: true} }},
		{"zero tone", func(c *Config) { c.Codec.ToneDuration = 0 }},
		{"hop above one", func(c *Config) { c.Decode.Hop = 1.5 }},
		{"min run zero", func(c *Config) { c.Decode.MinRun = 0 }},
		{"no gap", func(c *Config) { c.Codec.GapDuration = 0 }},
		{"gap without a silent window", func(c *Config) { c.Codec.GapDuration = 20 * time.Millisecond }},
		{"tone shorter than min run", func(c *Config) { c.Codec.ToneDuration = 30 * time.Millisecond }},
		{"min run outlasting tone", func(c *Config) { c.Decode.MinRun = 10 }},
		{"negative display duration", func(c *Config) { c.Display.Duration = -time.Second }},
		{"negative periods", func(c *Config) { c.Display.Periods = -1 }},
		{"loud volume", func(c *Config) { c.Player.Volume = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			cfg, err := loadFrom(t, "")
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsShortestDecodableLayout(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadFrom(t, "")
	require.NoError(t, err)

	dec := cfg.Decode.Options()
	assert.Equal(t, 37500*time.Microsecond, dec.MinGap())
	assert.Equal(t, 37500*time.Microsecond, dec.MinTone())

	cfg.Codec.GapDuration = dec.MinGap()
	cfg.Codec.ToneDuration = dec.MinTone()
	require.NoError(t, cfg.Validate())

	cfg.Codec.GapDuration = dec.MinGap() - time.Millisecond
	assert.ErrorContains(t, cfg.Validate(), "repeated symbols")
}

func TestDefaultLayoutKeepsRepeatedSymbols(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadFrom(t, "")
	require.NoError(t, err)

	enc, err := codec.NewEncoder(cfg.Codec.Options())
	require.NoError(t, err)
	dec, err := codec.NewDecoder(cfg.Decode.Options())
	require.NoError(t, err)

	samples, err := enc.Samples([]rune("11"))
	require.NoError(t, err)
	res, err := dec.Decode(context.Background(), &codec.Clip{Samples: samples, SampleRate: cfg.Codec.Options().SampleRate})
	require.NoError(t, err)
	assert.Equal(t, "11", res.Text)
}
