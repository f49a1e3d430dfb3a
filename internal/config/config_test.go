package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindsim.yaml")
	yaml := `
device:
  max_uniform_buffer_bindings: 8
engine:
  debug: true
workload:
  frames: 10
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("BINDSIM_WORKLOAD_MATERIALS", "5")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Device.MaxUniformBufferBindings = 8
	want.Engine.Debug = true
	want.Workload.Frames = 10
	want.Workload.Materials = 5
	want.Logging.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero device limit", func(c *Config) { c.Device.MaxTextureUnits = 0 }},
		{"negative override", func(c *Config) { c.Engine.MaxUniformBufferUnits = -1 }},
		{"no materials", func(c *Config) { c.Workload.Materials = 0 }},
		{"bad port", func(c *Config) { c.Serve.Port = 70000 }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}
