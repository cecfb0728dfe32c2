package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"pbform/internal/config"
	"pbform/internal/patch"
)

// Edit commands work on the raw file bytes: the patch engine re-scans the
// current content and replaces only the targeted argument positions, so
// everything else in the file survives byte-for-byte.

var moveCmd = &cobra.Command{
	Use:   "move [flags] <file.pbf> <id> <x> <y>",
	Short: "Move a gadget or the window",
	Args:  cobra.ExactArgs(4),
	RunE:  runMove,
}

var resizeCmd = &cobra.Command{
	Use:   "resize [flags] <file.pbf> <id> <x> <y> <w> <h>",
	Short: "Move and resize a gadget or the window",
	Args:  cobra.ExactArgs(6),
	RunE:  runResize,
}

var setTextCmd = &cobra.Command{
	Use:   "settext <file.pbf> <id> <text>",
	Short: "Change a gadget's caption",
	Args:  cobra.ExactArgs(3),
	RunE:  runSetText,
}

var renameCmd = &cobra.Command{
	Use:   "rename [flags] <file.pbf> <new-name>",
	Short: "Rename the window, keeping its addressing mode",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Edit list and combo items",
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Change how the window is addressed",
}

var windowNamedCmd = &cobra.Command{
	Use:   "named <file.pbf> <constant>",
	Short: "Switch the window to a named constant, updating Global and enumeration lines",
	Args:  cobra.ExactArgs(2),
	RunE:  runWindowNamed,
}

var windowAnonCmd = &cobra.Command{
	Use:   "anonymous <file.pbf> <variable>",
	Short: "Switch the window to runtime addressing through a variable",
	Args:  cobra.ExactArgs(2),
	RunE:  runWindowAnonymous,
}

var itemAddCmd = &cobra.Command{
	Use:   "add <file.pbf> <gadget-id> <text>",
	Short: "Append an item to a gadget",
	Args:  cobra.ExactArgs(3),
	RunE:  runItemAdd,
}

var itemSetCmd = &cobra.Command{
	Use:   "set <file.pbf> <gadget-id> <line> <text>",
	Short: "Replace the text of the item statement at a 1-based line",
	Args:  cobra.ExactArgs(4),
	RunE:  runItemSet,
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <file.pbf> <gadget-id> <line>",
	Short: "Delete the item statement at a 1-based line",
	Args:  cobra.ExactArgs(3),
	RunE:  runItemRemove,
}

func init() {
	moveCmd.Flags().Bool("window", false, "target the window instead of a gadget")
	resizeCmd.Flags().Bool("window", false, "target the window instead of a gadget")
	renameCmd.Flags().Bool("procs", false, "also rename the Open<Window> procedure and its call sites")

	for _, c := range []*cobra.Command{moveCmd, resizeCmd, setTextCmd, renameCmd, itemAddCmd, itemSetCmd, itemRemoveCmd, windowNamedCmd, windowAnonCmd} {
		c.Flags().Bool("dry-run", false, "print the patched source instead of writing the file")
	}

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemSetCmd)
	itemCmd.AddCommand(itemRemoveCmd)

	windowCmd.AddCommand(windowNamedCmd)
	windowCmd.AddCommand(windowAnonCmd)
}

func runWindowNamed(cmd *cobra.Command, args []string) error {
	path, constant := args[0], args[1]
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.SetWindowNamed(content, constant)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runWindowAnonymous(cmd *cobra.Command, args []string) error {
	path, variable := args[0], args[1]
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.SetWindowAnonymous(content, variable)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runMove(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	x, y, err := parseCoords(args[2], args[3])
	if err != nil {
		return err
	}

	content, cfg, err := loadForEdit(path)
	if err != nil {
		return err
	}
	x = float64(cfg.Snap(int(x)))
	y = float64(cfg.Snap(int(y)))

	onWindow, err := cmd.Flags().GetBool("window")
	if err != nil {
		return err
	}

	var edits []patch.TextEdit
	if onWindow {
		edits, err = patch.MoveWindow(content, id, x, y)
	} else {
		edits, err = patch.MoveGadget(content, id, x, y)
	}
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runResize(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	x, y, err := parseCoords(args[2], args[3])
	if err != nil {
		return err
	}
	w, h, err := parseCoords(args[4], args[5])
	if err != nil {
		return err
	}

	content, cfg, err := loadForEdit(path)
	if err != nil {
		return err
	}

	onWindow, err := cmd.Flags().GetBool("window")
	if err != nil {
		return err
	}

	var edits []patch.TextEdit
	if onWindow {
		wi, hi := cfg.ClampWindow(int(w), int(h))
		edits, err = patch.ResizeWindow(content, id, x, y, float64(wi), float64(hi))
	} else {
		wi, hi := cfg.ClampGadget(int(w), int(h))
		edits, err = patch.ResizeGadget(content, id, x, y, float64(wi), float64(hi))
	}
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runSetText(cmd *cobra.Command, args []string) error {
	path, id, text := args[0], args[1], args[2]
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.SetGadgetText(content, id, text)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runRename(cmd *cobra.Command, args []string) error {
	path, newName := args[0], args[1]
	content, cfg, err := loadForEdit(path)
	if err != nil {
		return err
	}

	procs, err := cmd.Flags().GetBool("procs")
	if err != nil {
		return err
	}
	edits, err := patch.RenameWindow(content, newName, procs || cfg.Patch.RenameProcedures)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	path, id, text := args[0], args[1], args[2]
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.InsertItem(content, id, -1, text, nil)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runItemSet(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	line, err := parseLine(args[2])
	if err != nil {
		return err
	}
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.SetItem(content, id, line, args[3], nil)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func runItemRemove(cmd *cobra.Command, args []string) error {
	path, id := args[0], args[1]
	line, err := parseLine(args[2])
	if err != nil {
		return err
	}
	content, _, err := loadForEdit(path)
	if err != nil {
		return err
	}
	edits, err := patch.RemoveItem(content, id, line)
	if err != nil {
		return err
	}
	return writeEdits(cmd, path, content, edits)
}

func parseCoords(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid coordinate %q", a)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid coordinate %q", b)
	}
	return x, y, nil
}

func parseLine(raw string) (uint32, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid line %q (expected a 1-based line number)", raw)
	}
	return uint32(n - 1), nil
}

// loadForEdit reads the raw bytes (no normalization, edits must preserve
// the file exactly) and discovers the nearest manifest.
func loadForEdit(path string) ([]byte, config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	manifest, _, err := config.Discover(filepath.Dir(path))
	if err != nil {
		return nil, config.Config{}, err
	}
	return content, manifest.Config, nil
}

func writeEdits(cmd *cobra.Command, path string, content []byte, edits []patch.TextEdit) error {
	patched, err := patch.Apply(content, edits)
	if err != nil {
		return err
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if dryRun {
		_, err = os.Stdout.Write(patched)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "%s: %d edit(s) applied\n", path, len(edits))
	}
	return nil
}
