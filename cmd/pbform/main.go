package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pbform/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pbform",
	Short: "Form source parser and patcher",
	Long:  `pbform reads designer-generated form sources, reports problems and applies minimal edits without disturbing hand-written code`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(setTextCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
