package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:          "prefset",
		Short:        "Diff, merge, and share issue preference sets",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "prefset.yaml", "Project config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	root.AddCommand(initCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(diffCmd())
	root.AddCommand(mergeCmd())
	root.AddCommand(shareCmd())
	root.AddCommand(libraryCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(listCmd())
	root.AddCommand(showCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
