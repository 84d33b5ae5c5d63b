package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planwise/planwise/cmd/planctl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "planctl",
		Short: "Operations tool for the Planwise API",
		Long:  "CLI tool for triggering sync passes, inspecting the worker, and previewing schedules",
	}

	rootCmd.AddCommand(commands.NewTriggerCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewPreviewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
