package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stroycalc/internal/visualizer/layout"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputSVG   = "svg"
)

// outputFormat читает глобальный флаг --output; без корня команды это table.
func outputFormat(cmd *cobra.Command) string {
	f := cmd.Flags().Lookup("output")
	if f == nil {
		return OutputTable
	}
	return f.Value.String()
}

// parseParams разбирает пары key=value в числа так же, как это делают HTTP ручки.
func parseParams(pairs []string) (map[string]float64, error) {
	raw := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		raw[key] = value
	}
	return layout.Values(raw)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
