package analysis

import (
	"testing"

	"github.com/emrekoca/zscout/internal/config"
)

func TestNamerDefaults(t *testing.T) {
	n := NewNamer(config.Naming{})
	if got := n.Column(RoleNormalized, "SETUP_TIME"); got != "NORM_SETUP_TIME_PER_UNIT" {
		t.Fatalf("normalized name = %q", got)
	}
	if got := n.Column(RoleZScore, "X"); got != "Z_X" {
		t.Fatalf("zscore name = %q", got)
	}
	if got := n.Column(RoleGroupAverage, "X"); got != "AVG_X" {
		t.Fatalf("average name = %q", got)
	}
	if got := n.FlagColumn(); got != "FLAGGED_COLUMNS" {
		t.Fatalf("flag column = %q", got)
	}
}

func TestNamerCustomConventions(t *testing.T) {
	n := NewNamer(config.Naming{
		NormalizedPrefix: "ENK",
		NormalizedSuffix: "_MIN",
		ZScorePrefix:     "ZS_",
		AveragePrefix:    "ORT_",
		FlagColumn:       "SAPAN",
	})
	if got := n.Column(RoleNormalized, "TIME"); got != "ENK_TIME_MIN" {
		t.Fatalf("normalized name = %q", got)
	}
	if got := n.BaseMetric("ENK_TIME_MIN"); got != "TIME" {
		t.Fatalf("base metric = %q", got)
	}
	if got := n.FlagColumn(); got != "SAPAN" {
		t.Fatalf("flag column = %q", got)
	}
}

func TestBaseMetricPassThrough(t *testing.T) {
	n := NewNamer(config.Naming{})
	// Names without both affixes are not derived columns.
	for _, name := range []string{"X", "NORM_X", "X_PER_UNIT"} {
		if got := n.BaseMetric(name); got != name {
			t.Fatalf("BaseMetric(%q) = %q, want unchanged", name, got)
		}
	}
}
