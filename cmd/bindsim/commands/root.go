package commands

import (
	"github.com/hulkholden/gpubind/backend/host"
	"github.com/hulkholden/gpubind/device"
	"github.com/hulkholden/gpubind/engine"
	"github.com/hulkholden/gpubind/internal/config"
	"github.com/hulkholden/gpubind/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bindsim",
	Short: "Simulate GPU resource binding",
	Long: `bindsim drives the binding engine against an in-memory device and
reports how uniform buffer and texture units are allocated.

It can also serve the WebAssembly client which runs the same workload on
WebGPU.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		if err := logging.Init(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Console); err != nil {
			return err
		}
		engine.SetLogger(logging.Slog())
		logging.Debugf("config: %+v", *cfg)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bindsim.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("max-uniform-buffer-bindings", 72, "uniform buffer bindings reported by the device")
	rootCmd.PersistentFlags().Int("max-texture-units", 32, "texture units reported by the device")
	rootCmd.PersistentFlags().Int("uniform-buffer-units", 0, "limit the uniform buffer table (0 uses the device limit)")
	rootCmd.PersistentFlags().Bool("debug", false, "check device errors after every call")

	v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("device.max_uniform_buffer_bindings", rootCmd.PersistentFlags().Lookup("max-uniform-buffer-bindings"))
	v.BindPFlag("device.max_texture_units", rootCmd.PersistentFlags().Lookup("max-texture-units"))
	v.BindPFlag("engine.max_uniform_buffer_units", rootCmd.PersistentFlags().Lookup("uniform-buffer-units"))
	v.BindPFlag("engine.debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(runCmd, limitsCmd, serveCmd)
}

// newContext creates a host device and context from the configuration.
func newContext(c *config.Config) (*engine.Context, *host.Device) {
	dev := host.New(host.WithLimits(device.Limits{
		MaxUniformBufferBindings: c.Device.MaxUniformBufferBindings,
		MaxTextureUnits:          c.Device.MaxTextureUnits,
	}))
	opts := []engine.ContextOption{
		engine.WithMaxUniformBufferUnits(c.Engine.MaxUniformBufferUnits),
		engine.WithMaxTextureUnits(c.Engine.MaxTextureUnits),
	}
	if c.Engine.Debug {
		opts = append(opts, engine.WithDebug())
	}
	return engine.NewContext(dev, opts...), dev
}
