package commands

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/hulkholden/gpubind/client/examples/materials"
	"github.com/hulkholden/gpubind/engine"
	"github.com/hulkholden/gpubind/internal/logging"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the materials workload on the host device",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, dev := newContext(cfg)
		w := cfg.Workload
		scene, err := materials.NewScene(ctx, materials.Params{
			Materials: w.Materials,
			Textures:  w.Textures,
			Draws:     w.Draws,
			Seed:      w.Seed,
		})
		if err != nil {
			return err
		}
		defer scene.Release()

		start := time.Now()
		for i := 0; i < w.Frames; i++ {
			if err := scene.Frame(); err != nil {
				return err
			}
		}
		logging.Infof("ran %d frames of %d draws in %v", w.Frames, w.Draws, time.Since(start))
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("device error: %w", err)
		}

		out := cmd.OutOrStdout()
		printStats(out, ctx.Stats())
		fmt.Fprintln(out, "\nDevice calls:")
		counts := dev.Counts()
		ops := make([]string, 0, len(counts))
		for op := range counts {
			ops = append(ops, op)
		}
		slices.Sort(ops)
		for _, op := range ops {
			fmt.Fprintf(out, "  %-22s %d\n", op, counts[op])
		}
		return nil
	},
}

func printStats(out io.Writer, s engine.Stats) {
	fmt.Fprintln(out, "Binding statistics:")
	fmt.Fprintf(out, "  %-22s %d\n", "uniform buffer binds", s.UniformBufferBinds)
	fmt.Fprintf(out, "  %-22s %d\n", "uniform buffer evicts", s.UniformBufferEvictions)
	fmt.Fprintf(out, "  %-22s %d\n", "texture binds", s.TextureBinds)
	fmt.Fprintf(out, "  %-22s %d\n", "texture evicts", s.TextureEvictions)
	fmt.Fprintf(out, "  %-22s %d\n", "uniform pushes", s.UniformPushes)
	fmt.Fprintf(out, "  %-22s %d\n", "skipped pushes", s.SkippedPushes)
}

func init() {
	runCmd.Flags().Int("frames", 120, "frames to simulate")
	runCmd.Flags().Int("materials", 24, "number of materials")
	runCmd.Flags().Int("draws", 64, "draws per frame")
	runCmd.Flags().Int64("seed", 1, "random seed")

	v.BindPFlag("workload.frames", runCmd.Flags().Lookup("frames"))
	v.BindPFlag("workload.materials", runCmd.Flags().Lookup("materials"))
	v.BindPFlag("workload.draws", runCmd.Flags().Lookup("draws"))
	v.BindPFlag("workload.seed", runCmd.Flags().Lookup("seed"))
}
