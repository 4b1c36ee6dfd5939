package analysis

import (
	"strings"

	"github.com/emrekoca/zscout/internal/config"
)

// Role identifies what a derived column holds.
type Role int

const (
	RoleNormalized Role = iota
	RoleZScore
	RoleGroupAverage
)

// Namer derives engine column names from business column names and resolves
// them back. It is the single place column-name concatenation happens.
type Namer struct {
	conv config.Naming
}

// NewNamer builds a Namer, falling back to the stock conventions for any
// field left empty in the configuration.
func NewNamer(conv config.Naming) Namer {
	if conv.NormalizedPrefix == "" {
		conv.NormalizedPrefix = "NORM"
	}
	if conv.NormalizedSuffix == "" {
		conv.NormalizedSuffix = "_PER_UNIT"
	}
	if conv.ZScorePrefix == "" {
		conv.ZScorePrefix = "Z_"
	}
	if conv.AveragePrefix == "" {
		conv.AveragePrefix = "AVG_"
	}
	if conv.FlagColumn == "" {
		conv.FlagColumn = "FLAGGED_COLUMNS"
	}
	return Namer{conv: conv}
}

// Column returns the derived column name for a role applied to base.
func (n Namer) Column(role Role, base string) string {
	switch role {
	case RoleNormalized:
		return n.conv.NormalizedPrefix + "_" + base + n.conv.NormalizedSuffix
	case RoleZScore:
		return n.conv.ZScorePrefix + base
	case RoleGroupAverage:
		return n.conv.AveragePrefix + base
	}
	return base
}

// FlagColumn returns the name of the metadata column holding the
// comma-joined outlier labels.
func (n Namer) FlagColumn() string { return n.conv.FlagColumn }

// BaseMetric strips the normalization affixes from a derived column name,
// recovering the original business column. Names without both affixes are
// returned unchanged.
func (n Namer) BaseMetric(name string) string {
	pre := n.conv.NormalizedPrefix + "_"
	if strings.HasPrefix(name, pre) && strings.HasSuffix(name, n.conv.NormalizedSuffix) {
		core := strings.TrimPrefix(name, pre)
		return strings.TrimSuffix(core, n.conv.NormalizedSuffix)
	}
	return name
}
