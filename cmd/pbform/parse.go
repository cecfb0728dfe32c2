package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pbform/internal/diagfmt"
	"pbform/internal/driver"
	"pbform/internal/snapshot"
	"pbform/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.pbf>",
	Short: "Parse a form source and print its document model",
	Long:  `Parse builds the structured model of one form file: the window, gadget tree, menus, toolbars and statusbars, plus any issues found along the way`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	parseCmd.Flags().Bool("cache", false, "reuse and refresh the snapshot cache")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fileSet := source.NewFileSet()

	var result driver.Result
	if useCache {
		var cache *snapshot.Cache
		cache, err = snapshot.OpenCache("pbform")
		if err != nil {
			return fmt.Errorf("failed to open snapshot cache: %w", err)
		}
		result, err = driver.ParseFileCached(fileSet, path, maxDiagnostics, cache)
	} else {
		result, err = driver.ParseFile(fileSet, path, maxDiagnostics)
	}
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet && result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, fileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: true,
		})
	}

	switch format {
	case "pretty":
		diagfmt.DumpDocument(os.Stdout, result.Doc, useColor(cmd, os.Stdout))
		return nil
	case "json":
		return diagfmt.DocumentJSON(os.Stdout, result.Doc)
	case "msgpack":
		file := fileSet.Get(result.FileID)
		payload := snapshot.FromDocument(result.Doc, snapshot.HashContent(file.Content))
		data, err := snapshot.Encode(payload)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
