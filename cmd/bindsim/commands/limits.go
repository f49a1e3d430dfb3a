package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print the device limits and the resulting binding table sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, dev := newContext(cfg)
		limits := dev.Limits()
		ubo, tex := ctx.UnitCounts()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s %8s %8s\n", "", "device", "table")
		fmt.Fprintf(out, "%-16s %8d %8d\n", "uniform buffers", limits.MaxUniformBufferBindings, ubo)
		fmt.Fprintf(out, "%-16s %8d %8d\n", "textures", limits.MaxTextureUnits, tex)
		return nil
	},
}
