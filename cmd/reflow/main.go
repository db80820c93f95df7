package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/internal/config"
	"github.com/reflow-dev/reflow/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reflow",
		Short: "Tooling for the Reflow reconciliation engine",
		Long: `Reflow keeps a native node tree synchronized with reactive state.

The CLI bundles development tooling for embedders:

  • serve:   run the inspection server (tree snapshots, event stream, metrics)
  • demo:    run reconciliation scenarios against an in-memory tree
  • version: print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var re *errors.ReflowError
		if stderrors.As(err, &re) {
			fmt.Fprint(os.Stderr, re.Format())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig resolves the project configuration: an explicit path when
// given, otherwise a search upward from the working directory falling
// back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(wd)
}
