package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stroycalc/internal/calculator"
)

type typeRow struct {
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Fields   []string `json:"fields"`
}

// NewTypesCommand создает команду types.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List calculation categories and types",
		Example: `  # Table of all calculation types
  stroycalc types

  # Same as JSON
  stroycalc types -o json`,
		Args: cobra.NoArgs,
		RunE: runTypes,
	}
}

func runTypes(cmd *cobra.Command, _ []string) error {
	var rows []typeRow
	for _, ref := range calculator.Types() {
		def, _ := calculator.Lookup(ref.Category, ref.Type)
		fields := make([]string, 0, len(def.Fields))
		for _, f := range def.Fields {
			name := f.Name
			if f.Default != nil {
				name += "=" + formatNumber(*f.Default)
			}
			fields = append(fields, name)
		}
		rows = append(rows, typeRow{Category: ref.Category, Type: ref.Type, Name: def.Name, Fields: fields})
	}

	w := cmd.OutOrStdout()
	if outputFormat(cmd) == OutputJSON {
		return renderJSON(w, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Category", "Type", "Name", "Fields"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Category, r.Type, r.Name, strings.Join(r.Fields, ", ")})
	}
	t.Render()
	return nil
}
