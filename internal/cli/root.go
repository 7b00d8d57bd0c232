// Package cli - консольный интерфейс калькулятора: расчеты и раскладки без HTTP.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stroycalc/internal/cli/commands"
)

// Version выставляется при сборке.
var Version = "0.1.0"

// NewRootCmd создает корневую команду.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stroycalc",
		Short: "StroyCalc - калькулятор строительных материалов",
		Long: `StroyCalc считает расход материалов для ремонта и строительства
и строит 3D раскладку помещения по тем же параметрам, что и веб-сервисы.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("output", "o", commands.OutputTable, "Output format (table|json|svg)")
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{commands.OutputTable, commands.OutputJSON, commands.OutputSVG}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewTypesCommand())
	rootCmd.AddCommand(commands.NewCalcCommand())
	rootCmd.AddCommand(commands.NewLayoutCommand())

	return rootCmd
}

// Execute запускает корневую команду.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
