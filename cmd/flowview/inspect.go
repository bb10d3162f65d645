package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodewire/flow"
	"github.com/nodewire/flow/sceneio"
)

func inspectCmd() *cobra.Command {
	var (
		elapsed float64
		delta   float64
		animate bool
		meshes  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <scene>",
		Short: "Advance one frame and print it as JSON",
		Long: `Build an engine from the scene, advance a single frame and print it
to stdout. Output is pure JSON so it pipes into jq; diagnostics go to
stderr. Tube vertex data is summarized unless --meshes is set.

  flowview inspect scene.yaml | jq .strokes
  flowview inspect scene.yaml --elapsed 2.5 --meshes`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scene, err := sceneio.Load(args[0])
			if err != nil {
				bad.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			eng, src, err := scene.Engine()
			if err != nil {
				bad.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}

			scene.Animate(src, elapsed)
			f := eng.Advance(flow.Clock{
				Elapsed: elapsed,
				Delta:   delta,
				Animate: animate,
			})

			var enc wireEncoder
			wf := enc.frame(f, elapsed)
			if !meshes {
				for i := range wf.Tubes {
					wf.Tubes[i].Positions = nil
					wf.Tubes[i].Normals = nil
					wf.Tubes[i].Indices = nil
				}
			}

			data, err := json.MarshalIndent(wf, "", "  ")
			if err != nil {
				bad.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			os.Stdout.Write(append(data, '\n'))
		},
	}

	cmd.Flags().Float64Var(&elapsed, "elapsed", 0, "Clock time in seconds")
	cmd.Flags().Float64Var(&delta, "delta", 1.0/60, "Frame delta in seconds")
	cmd.Flags().BoolVar(&animate, "animate", true, "Advance animation phases")
	cmd.Flags().BoolVar(&meshes, "meshes", false, "Include full tube vertex data")
	return cmd
}
