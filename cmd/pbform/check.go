package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pbform/internal/diag"
	"pbform/internal/diagfmt"
	"pbform/internal/driver"
	"pbform/internal/source"
	"pbform/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.pbf|directory>",
	Short: "Check form sources and report issues",
	Long:  `Check parses one form file or every form file under a directory and reports structural issues: missing headers, anonymous windows without result capture, duplicate identities and entries outside their sections`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type checkOutcome struct {
	fileSet *source.FileSet
	results []driver.Result
	err     error
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var fileSet *source.FileSet
	var results []driver.Result
	if st.IsDir() {
		if shouldUseTUI(mode) {
			fileSet, results, err = checkDirWithUI(cmd.Context(), path, maxDiagnostics, jobs)
		} else {
			fileSet, results, err = driver.CheckDir(cmd.Context(), path, maxDiagnostics, jobs, nil)
		}
		if err != nil {
			return err
		}
	} else {
		fileSet = source.NewFileSet()
		result, err := driver.ParseFile(fileSet, path, maxDiagnostics)
		if err != nil {
			return err
		}
		results = []driver.Result{result}
	}

	return reportResults(cmd, fileSet, results)
}

func checkDirWithUI(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, []driver.Result, error) {
	files, err := driver.ListFormFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		fs, results, err := driver.CheckDir(ctx, dir, maxDiagnostics, jobs, driver.ChannelSink{Ch: events})
		outcomeCh <- checkOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}

func reportResults(cmd *cobra.Command, fileSet *source.FileSet, results []driver.Result) error {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	merged := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		if r.Bag != nil {
			merged.Merge(r.Bag)
		}
	}
	merged.Sort()
	hadErrors := merged.HasErrors()

	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiagnostics,
		}); err != nil {
			return err
		}
	case "pretty":
		diagfmt.Pretty(os.Stderr, merged, fileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: true,
		})
		if !quiet {
			fmt.Fprintf(os.Stdout, "%d file(s) checked, %d issue(s)\n", len(results), merged.Len())
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if hadErrors {
		return fmt.Errorf("check found errors")
	}
	return nil
}
