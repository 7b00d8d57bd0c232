package commands

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/mapper"
)

// NewLayoutCommand создает команду layout.
func NewLayoutCommand() *cobra.Command {
	var (
		params []string
		view   string
	)

	cmd := &cobra.Command{
		Use:   "layout <type>",
		Short: "Build the 3D layout of a calculation",
		Example: `  # Primitives of a tiled floor
  stroycalc layout tiles -p length=4 -p width=3 -p tile_width=0.5

  # Plan view as SVG
  stroycalc layout laminate -p length=4 -p width=3 -p laminate_width=0.2 -p laminate_length=1.2 -o svg --view plan > plan.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, args[0], params, mapper.View(view))
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Layout parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&view, "view", string(mapper.ViewFront), "SVG projection (front|plan)")
	return cmd
}

func runLayout(cmd *cobra.Command, calcType string, pairs []string, view mapper.View) error {
	values, err := parseParams(pairs)
	if err != nil {
		return err
	}
	l, err := layout.Generate(calcType, values)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch outputFormat(cmd) {
	case OutputJSON:
		return renderJSON(w, l)
	case OutputSVG:
		svg, err := mapper.NewRenderer().Render(l, view)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, svg)
		return err
	}

	if l.Placeholder != "" {
		_, _ = fmt.Fprintln(w, l.Placeholder)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Group", "Shape", "Size", "Position", "Color"})
	for i, p := range l.Primitives {
		t.AppendRow(table.Row{i + 1, p.Group, p.Shape, formatVec(p.Size), formatVec(p.Position), p.Material.Color})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d primitives)\n", len(l.Primitives))
	return nil
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("%s × %s × %s", formatNumber(v.X()), formatNumber(v.Y()), formatNumber(v.Z()))
}
