package analysis

import (
	"fmt"
	"strings"
)

// ConfigError reports a configuration problem discovered against the fetched
// data, naming the offending columns. It halts the pipeline; the run produces
// no output.
type ConfigError struct {
	Reason  string
	Columns []string
}

func (e *ConfigError) Error() string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Reason, strings.Join(e.Columns, ", "))
}
