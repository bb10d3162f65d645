package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nodewire/flow"
)

var version = "0.3.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "flowview",
	Short: "flowview — animated link scenes from the terminal",
	Long: brand.Sprint(mark+" flowview") + " — render, stream and inspect link scenes\n" +
		subtle.Sprint("Scene files go in, PNG sequences and websocket frame streams come out"),
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			flow.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("flowview {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine diagnostics to stderr")

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		inspectCmd(),
		sceneCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
