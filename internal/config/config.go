// Package config loads and validates the analysis and report settings that
// drive a run. Settings come from a JSON or YAML config file plus ZSCOUT_*
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Naming holds the conventions used to derive engine column names from
// business column names.
type Naming struct {
	NormalizedPrefix string `mapstructure:"normalized_prefix" yaml:"normalized_prefix"`
	NormalizedSuffix string `mapstructure:"normalized_suffix" yaml:"normalized_suffix"`
	ZScorePrefix     string `mapstructure:"zscore_prefix" yaml:"zscore_prefix"`
	AveragePrefix    string `mapstructure:"average_prefix" yaml:"average_prefix"`
	FlagColumn       string `mapstructure:"flag_column" yaml:"flag_column"`
}

// Analysis configures normalization, grouping, and the z-score test.
type Analysis struct {
	BaseQuantityColumn string            `mapstructure:"base_quantity_column" yaml:"base_quantity_column"`
	NormalizeMap       map[string]string `mapstructure:"normalize_map" yaml:"normalize_map"`
	AnalysisColumns    []string          `mapstructure:"analysis_columns" yaml:"analysis_columns"`
	GroupByColumns     []string          `mapstructure:"group_by_columns" yaml:"group_by_columns"`
	ZScoreThreshold    float64           `mapstructure:"z_score_threshold" yaml:"z_score_threshold"`
	Naming             Naming            `mapstructure:"naming" yaml:"naming"`
	AnalysisPrecision  int               `mapstructure:"analysis_precision" yaml:"analysis_precision"`
	AveragePrecision   int               `mapstructure:"average_precision" yaml:"average_precision"`
}

// Report configures which columns identify a row and how the workbook is
// rendered.
type Report struct {
	BaseColumns    []string          `mapstructure:"base_columns" yaml:"base_columns"`
	ColumnLabels   map[string]string `mapstructure:"column_labels" yaml:"column_labels"`
	OutputFilename string            `mapstructure:"output_filename" yaml:"output_filename"`
	HighlightColor string            `mapstructure:"highlight_color" yaml:"highlight_color"`
}

// Config is the full run configuration.
type Config struct {
	SQLQuery string   `mapstructure:"sql_query" yaml:"sql_query"`
	Analysis Analysis `mapstructure:"analysis_settings" yaml:"analysis_settings"`
	Report   Report   `mapstructure:"report_settings" yaml:"report_settings"`
}

// Load reads configuration from the given file (JSON or YAML by extension),
// applying defaults and ZSCOUT_* environment overrides.
// Precedence: env > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ZSCOUT")
	// Nested keys use dots internally; map them to underscores so e.g.
	// ZSCOUT_ANALYSIS_SETTINGS_Z_SCORE_THRESHOLD resolves.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("analysis_settings.z_score_threshold", 3.0)
	v.SetDefault("analysis_settings.analysis_precision", 2)
	v.SetDefault("analysis_settings.average_precision", 2)
	v.SetDefault("analysis_settings.naming.normalized_prefix", "NORM")
	v.SetDefault("analysis_settings.naming.normalized_suffix", "_PER_UNIT")
	v.SetDefault("analysis_settings.naming.zscore_prefix", "Z_")
	v.SetDefault("analysis_settings.naming.average_prefix", "AVG_")
	v.SetDefault("analysis_settings.naming.flag_column", "FLAGGED_COLUMNS")
	v.SetDefault("report_settings.output_filename", "outlier_report.xlsx")
	v.SetDefault("report_settings.highlight_color", "FFC7CE")

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the static shape of the configuration. Checks that depend
// on the fetched data belong to the pipeline stages, not here.
func (c *Config) Validate() error {
	if c.Analysis.ZScoreThreshold <= 0 {
		return fmt.Errorf("z_score_threshold must be positive, got %v", c.Analysis.ZScoreThreshold)
	}
	if c.Analysis.AnalysisPrecision < 0 || c.Analysis.AveragePrecision < 0 {
		return fmt.Errorf("display precisions must be non-negative")
	}
	if c.Report.OutputFilename == "" {
		return fmt.Errorf("report_settings.output_filename is required")
	}
	return nil
}

// Save writes the configuration to path as YAML.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Example returns a filled-in configuration suitable for `zscout init`.
func Example() *Config {
	return &Config{
		SQLQuery: "SELECT plant, line, product_code, quantity, setup_time, setup_unit, cycle_time, cycle_unit FROM production_metrics",
		Analysis: Analysis{
			BaseQuantityColumn: "quantity",
			NormalizeMap: map[string]string{
				"setup_time": "setup_unit",
				"cycle_time": "cycle_unit",
			},
			GroupByColumns:    []string{"plant", "product_code"},
			ZScoreThreshold:   3.0,
			AnalysisPrecision: 2,
			AveragePrecision:  2,
			Naming: Naming{
				NormalizedPrefix: "NORM",
				NormalizedSuffix: "_PER_UNIT",
				ZScorePrefix:     "Z_",
				AveragePrefix:    "AVG_",
				FlagColumn:       "FLAGGED_COLUMNS",
			},
		},
		Report: Report{
			BaseColumns: []string{"plant", "line", "product_code"},
			ColumnLabels: map[string]string{
				"plant":        "Plant",
				"line":         "Line",
				"product_code": "Product",
				"setup_time":   "Setup Time",
				"cycle_time":   "Cycle Time",
			},
			OutputFilename: "outlier_report.xlsx",
			HighlightColor: "FFC7CE",
		},
	}
}
