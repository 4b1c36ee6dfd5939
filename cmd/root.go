package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// defaultConfigFile is shared by the --config flag and `zscout init` so a
// fresh init + run pair agrees on where the config lives.
const defaultConfigFile = "zscout.yaml"

var (
	// Global flags
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "zscout",
	Short: "zscout: grouped z-score outlier reports from tabular data",
	Long: `zscout fetches a tabular dataset, derives per-unit normalized metrics,
flags statistical outliers within configurable groups, and writes a formatted
spreadsheet report with the flagged cells highlighted.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigFile, "config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}
