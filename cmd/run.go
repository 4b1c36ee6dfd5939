package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/emrekoca/zscout/internal/config"
	"github.com/emrekoca/zscout/internal/fetch"
	"github.com/emrekoca/zscout/internal/pipeline"
)

var (
	runInput     string
	runDelimiter string
	runOutput    string
	runThreshold float64
	runGroupBy   []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the outlier analysis once and write the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetch.LoadEnv()
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		// CLI overrides
		if cmd.Flags().Changed("threshold") && runThreshold > 0 {
			cfg.Analysis.ZScoreThreshold = runThreshold
		}
		if len(runGroupBy) > 0 {
			cfg.Analysis.GroupByColumns = runGroupBy
		}
		if runOutput != "" {
			cfg.Report.OutputFilename = runOutput
		}

		var src fetch.Source
		if runInput != "" {
			delim, err := parseDelimiter(runDelimiter)
			if err != nil {
				return err
			}
			src = &fetch.CSVSource{Path: runInput, Delimiter: delim}
		} else {
			dbSrc, err := fetch.NewDBSource(cfg.SQLQuery)
			if err != nil {
				return err
			}
			src = dbSrc
		}

		runID := uuid.NewString()
		if debug {
			fmt.Printf("run %s: threshold=%v group_by=%v\n", runID, cfg.Analysis.ZScoreThreshold, cfg.Analysis.GroupByColumns)
		}
		res, err := pipeline.Run(context.Background(), src, cfg, runID)
		if res != nil {
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
			}
		}
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d row(s)\n", res.Fetched)
		if res.ReportPath != "" {
			fmt.Printf("✓ %d outlier row(s) found; report saved to %s\n", res.Outliers, res.ReportPath)
		} else {
			fmt.Println("No outliers found. No report written.")
		}
		return nil
	},
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "read the dataset from a CSV/TSV file instead of the database")
	runCmd.Flags().StringVar(&runDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "report filename (overrides config)")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0, "z-score threshold (overrides config)")
	runCmd.Flags().StringSliceVar(&runGroupBy, "group-by", nil, "column names to group by (overrides config)")
}
