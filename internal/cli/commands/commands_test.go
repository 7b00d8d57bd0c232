package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroycalc/internal/calculator"
	"stroycalc/internal/visualizer/layout"
	"stroycalc/internal/visualizer/models"
)

// run выполняет команду под тестовым корнем с глобальным --output.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "stroycalc", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringP("output", "o", OutputTable, "")
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{cmd.Name()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestNewCalcCommand(t *testing.T) {
	cmd := NewCalcCommand()

	assert.Equal(t, "calc <category> <type>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	assert.NotNil(t, cmd.Flags().Lookup("param"))
}

func TestTypes_Table(t *testing.T) {
	out, err := run(t, NewTypesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Покраска стен")
	assert.Contains(t, out, "coats=2")
}

func TestTypes_JSON(t *testing.T) {
	out, err := run(t, NewTypesCommand(), "-o", "json")
	require.NoError(t, err)

	var rows []typeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, len(calculator.Types()))
	assert.Equal(t, "paint", rows[0].Type)
}

func TestCalc_Table(t *testing.T) {
	out, err := run(t, NewCalcCommand(), "repair", "paint", "-p", "length=4", "-p", "width=3", "-p", "height=2,5")
	require.NoError(t, err)
	assert.Contains(t, out, "Покраска стен")
	assert.Contains(t, out, "Краска")
	assert.Contains(t, out, "10.5")
	assert.Contains(t, out, "Площадь: 35 м²")
}

func TestCalc_JSON(t *testing.T) {
	out, err := run(t, NewCalcCommand(), "repair", "paint", "-p", "length=4", "-p", "width=3", "-p", "height=2.5", "-o", "json")
	require.NoError(t, err)

	var got calcOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2.0, got.Inputs["coats"])
	require.Len(t, got.Result.Materials, 1)
	assert.InDelta(t, 10.5, got.Result.Materials[0].Quantity, 1e-9)
}

func TestCalc_Errors(t *testing.T) {
	_, err := run(t, NewCalcCommand(), "garden", "paint")
	assert.ErrorIs(t, err, calculator.ErrUnknownCategory)

	_, err = run(t, NewCalcCommand(), "repair", "paint", "-p", "length")
	assert.ErrorContains(t, err, "key=value")

	_, err = run(t, NewCalcCommand(), "repair", "paint", "-p", "length=abc")
	assert.ErrorIs(t, err, layout.ErrInvalidInput)

	_, err = run(t, NewCalcCommand(), "repair")
	assert.Error(t, err)
}

func TestLayout_Table(t *testing.T) {
	out, err := run(t, NewLayoutCommand(), "tiles", "-p", "length=1", "-p", "width=1", "-p", "tile_width=0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "tiles")
	assert.Contains(t, out, "(10 primitives)")
}

func TestLayout_JSON(t *testing.T) {
	out, err := run(t, NewLayoutCommand(), "paint", "-p", "length=4", "-p", "width=3", "-p", "height=2.5", "-o", "json")
	require.NoError(t, err)

	var l models.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, models.TypePaint, l.Type)
	assert.Len(t, l.Group(models.GroupWalls), 4)
}

func TestLayout_SVG(t *testing.T) {
	out, err := run(t, NewLayoutCommand(), "laminate", "-p", "length=2", "-p", "width=2",
		"-p", "laminate_width=0.5", "-p", "laminate_length=1", "-o", "svg", "--view", "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")

	_, err = run(t, NewLayoutCommand(), "paint", "-p", "length=2", "-p", "width=2", "-p", "height=2", "-o", "svg", "--view", "iso")
	assert.Error(t, err)
}

func TestLayout_Placeholder(t *testing.T) {
	out, err := run(t, NewLayoutCommand(), "insulation")
	require.NoError(t, err)
	assert.Contains(t, out, "в разработке")
}

func TestLayout_MissingField(t *testing.T) {
	_, err := run(t, NewLayoutCommand(), "foundation", "-p", "length=10")
	assert.ErrorIs(t, err, layout.ErrMissingField)
}
