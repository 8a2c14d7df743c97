package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/focuslog/corehub/internal/log"
)

var (
	version = "0.1.0"
	commit  = "none"
)

func main() {
	root := &cobra.Command{
		Use:          "corehub",
		Short:        "corehub is the local-first personal activity recorder core service",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("corehub %s (commit %s)\n", version, commit)
		},
	})

	if err := root.Execute(); err != nil {
		log.WithComponent("cli").Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
