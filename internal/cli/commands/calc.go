package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stroycalc/internal/calculator"
	"stroycalc/internal/visualizer/models"
)

type calcOutput struct {
	Category string             `json:"category"`
	Type     string             `json:"calculation_type"`
	Inputs   map[string]float64 `json:"inputs"`
	Result   models.Result      `json:"result"`
}

// NewCalcCommand создает команду calc.
func NewCalcCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "calc <category> <type>",
		Short: "Calculate materials for a calculation type",
		Long: `Calculate materials for one calculation type.

Parameters are passed as --param key=value; fields with defaults may be omitted.
Run "stroycalc types" to see the fields of every type.`,
		Example: `  # Paint for a 4x3 room with 2.5 m walls
  stroycalc calc repair paint -p length=4 -p width=3 -p height=2.5

  # Foundation as JSON
  stroycalc calc construction foundation -p length=10 -p width=8 -p depth=0.5 -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, args[0], args[1], params)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Calculation parameter as key=value (repeatable)")
	return cmd
}

func runCalc(cmd *cobra.Command, category, calcType string, pairs []string) error {
	values, err := parseParams(pairs)
	if err != nil {
		return err
	}
	result, filled, err := calculator.Calculate(category, calcType, values)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outputFormat(cmd) == OutputJSON {
		return renderJSON(w, calcOutput{Category: category, Type: calcType, Inputs: filled, Result: result})
	}

	_, _ = fmt.Fprintf(w, "%s\n", calculator.DisplayName(calcType))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Material", "Quantity", "Unit"})
	for _, m := range result.Materials {
		t.AppendRow(table.Row{m.Name, formatNumber(m.Quantity), m.Unit})
	}
	t.Render()

	if result.TotalArea != nil {
		_, _ = fmt.Fprintf(w, "Площадь: %s м²\n", formatNumber(*result.TotalArea))
	}
	if result.Details != "" {
		_, _ = fmt.Fprintln(w, result.Details)
	}
	return nil
}
