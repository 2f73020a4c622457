// Package cli implements the matchday command line tool: one-shot match
// simulation and inspection of stored results.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	tuningPath string
)

var rootCmd = &cobra.Command{
	Use:   "matchday",
	Short: "Football match simulation tool",
	Long:  "Simulate full 90-minute football matches from team attribute sheets and inspect stored results.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/results.db", "path to the SQLite results database")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "", "optional YAML tuning override file")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(inspectCmd)
}
