package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "linkz",
		Short: "Typed synchronous chain demos",
		Long: `linkz is a CLI tool for exploring chains built from plain Go functions.

Run the sample chain over values given on the command line, or print
the chain's structure as text or JSON.`,
		Version:      version,
		SilenceUsage: true,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
}
