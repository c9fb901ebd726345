// colguide-repl edits a column-guide configuration interactively and shows
// the guide lines an attached in-memory view would draw.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/phroun/colguide"
	"github.com/spf13/cobra"
)

// REPL holds the state of the interactive session
type REPL struct {
	lib       *colguide.Library
	view      *colguide.MemoryView
	adornment *colguide.Adornment
	reader    *bufio.Reader
	out       io.Writer
}

var (
	settingsPath string
	optionsPath  string
	filePath     string
	viewHeight   float64
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colguide-repl",
		Short: "Interactive column guide editor",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "YAML file with defaults and limits")
	rootCmd.Flags().StringVar(&optionsPath, "options", "", "JSON file the configuration is loaded from and saved to")
	rootCmd.Flags().StringVar(&filePath, "file", "main.go", "document path used for file-type matching")
	rootCmd.Flags().Float64Var(&viewHeight, "height", 600, "viewport height")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(logLevel)
	if err != nil {
		return err
	}

	lib, err := colguide.Init(colguide.LibraryOptions{
		SettingsPath: settingsPath,
		OptionsPath:  optionsPath,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("initializing library: %w", err)
	}
	defer lib.Close()

	r := &REPL{
		lib:    lib,
		view:   colguide.NewMemoryView(filePath, viewHeight),
		reader: bufio.NewReader(os.Stdin),
		out:    cmd.OutOrStdout(),
	}
	r.adornment, err = lib.Attach(r.view, r.view)
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Fprintln(r.out, "Column Guide REPL")
		fmt.Fprintln(r.out, "Type 'help' for available commands, 'quit' to exit")
		fmt.Fprintln(r.out)
	}

	// Main loop
	for {
		if interactive {
			fmt.Fprint(r.out, "colguide> ")
		}
		input, err := r.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" && !r.handleCommand(input) {
			return nil
		}
		if err != nil {
			if interactive {
				fmt.Fprintln(r.out, "\nGoodbye!")
			}
			return nil
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return false

	case "tree":
		r.cmdTree()

	case "lines":
		r.cmdLines()

	case "assoc":
		r.cmdAssociation(args)

	case "guide":
		r.cmdGuide(args)

	case "toggle":
		r.cmdToggle(args)

	case "scroll":
		r.cmdScroll(args)

	case "resize":
		r.cmdResize(args)

	case "rename":
		r.cmdRename(args)

	case "format":
		r.cmdFormat(args)

	case "save":
		r.report(r.lib.Store().Save(), "Saved")

	case "load":
		loaded, err := r.lib.Store().Load()
		if err == nil && !loaded {
			fmt.Fprintln(r.out, "No options file yet")
			return true
		}
		r.report(err, "Loaded")

	case "reset":
		r.report(r.lib.Store().Reset(), "Reset to initial options")

	case "export":
		r.report(r.lib.Store().Export(r.out), "")

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

CONFIGURATION:
  tree                              Show associations and guides
  assoc add [at]                    Add an association (default: at end)
  assoc rm <a>                      Remove association a
  assoc mv <a> <to>                 Move association a to position to
  assoc enable <a> on|off           Enable or disable association a
  assoc types <a> <patterns>        Set file-type patterns, e.g. *.go;*.mod
  guide add <a> [at]                Add a guide to association a
  guide rm <a> <g>                  Remove guide g
  guide mv <a> <g> <to>             Move guide g to position to
  guide set <a> <g> <field> <value> Set visible, column, color, width or dashes
  toggle show|stick|snap            Flip ShowGuides, StickToPage or SnapToPixels

VIEW:
  lines                             Show drawn lines in paint order
  scroll <dy>                       Scroll the viewport
  resize <height>                   Resize the viewport
  rename <path>                     Rename the document
  format <cell-width>               Change the column width

PERSISTENCE:
  save | load | reset | export

OTHER:
  help                              Show this help message
  quit, exit                        Exit the REPL
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) report(err error, ok string) {
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	if ok != "" {
		fmt.Fprintln(r.out, ok)
	}
}

func (r *REPL) cmdTree() {
	m := r.lib.Model()
	fmt.Fprintf(r.out, "ShowGuides=%v StickToPage=%v SnapToPixels=%v\n", m.ShowGuides(), m.StickToPage(), m.SnapToPixels())
	for _, a := range m.Associations() {
		fmt.Fprintf(r.out, "[%d] enabled=%v types=%q matches=%v\n", a.Index(), a.Enabled(), a.FileTypes(), a.Matches(r.adornment.FileName()))
		for _, g := range a.Guides() {
			fmt.Fprintf(r.out, "    (%d) visible=%v column=%d color=%s width=%d dashes=%v\n",
				g.Index(), g.Visible(), g.Column(), g.Color(), g.Width(), g.Dashes())
		}
	}
}

func (r *REPL) cmdLines() {
	snap := r.adornment.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(r.out, "No lines drawn")
		return
	}
	for _, group := range snap {
		fmt.Fprintf(r.out, "association [%d]\n", group.AssociationIndex)
		for _, l := range group.Lines {
			line := l.Line
			fmt.Fprintf(r.out, "    guide (%d) x=%.1f y=%.1f..%.1f stroke=%s thickness=%.0f dashes=%v offset=%.2f snap=%v\n",
				l.GuideIndex, line.X1, line.Y1, line.Y2, line.Stroke, line.StrokeThickness,
				line.StrokeDashArray, line.StrokeDashOffset, line.SnapsToDevicePixels)
		}
	}
	fmt.Fprintf(r.out, "%d registrations, %d removals so far\n", r.view.Registrations(), r.view.Removals())
}

func (r *REPL) association(arg string) (*colguide.AssociationModel, bool) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= r.lib.Model().AssociationCount() {
		fmt.Fprintf(r.out, "No association %q\n", arg)
		return nil, false
	}
	return r.lib.Model().Association(i), true
}

func (r *REPL) guide(a *colguide.AssociationModel, arg string) (*colguide.GuideModel, bool) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= a.GuideCount() {
		fmt.Fprintf(r.out, "No guide %q\n", arg)
		return nil, false
	}
	return a.Guide(i), true
}

func (r *REPL) position(args []string, n int, fallback int) (int, bool) {
	if len(args) <= n {
		return fallback, true
	}
	i, err := strconv.Atoi(args[n])
	if err != nil {
		fmt.Fprintf(r.out, "Invalid position %q\n", args[n])
		return 0, false
	}
	return i, true
}

func (r *REPL) cmdAssociation(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: assoc add|rm|mv|enable|types ...")
		return
	}
	m := r.lib.Model()

	switch args[0] {
	case "add":
		at, ok := r.position(args, 1, m.AssociationCount())
		if !ok {
			return
		}
		_, err := m.AddAssociation(at)
		r.report(err, "")

	case "rm":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: assoc rm <a>")
			return
		}
		if a, ok := r.association(args[1]); ok {
			r.report(m.RemoveAssociation(a), "")
		}

	case "mv":
		if len(args) < 3 {
			fmt.Fprintln(r.out, "Usage: assoc mv <a> <to>")
			return
		}
		a, ok := r.association(args[1])
		if !ok {
			return
		}
		if to, ok := r.position(args, 2, 0); ok {
			r.report(m.MoveAssociation(a, to), "")
		}

	case "enable":
		if len(args) < 3 {
			fmt.Fprintln(r.out, "Usage: assoc enable <a> on|off")
			return
		}
		if a, ok := r.association(args[1]); ok {
			a.SetEnabled(args[2] == "on")
		}

	case "types":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: assoc types <a> <patterns>")
			return
		}
		if a, ok := r.association(args[1]); ok {
			a.SetFileTypes(strings.Join(args[2:], " "))
		}

	default:
		fmt.Fprintf(r.out, "Unknown assoc command: %s\n", args[0])
	}
}

func (r *REPL) cmdGuide(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "Usage: guide add|rm|mv|set <a> ...")
		return
	}
	m := r.lib.Model()
	a, ok := r.association(args[1])
	if !ok {
		return
	}

	switch args[0] {
	case "add":
		at, ok := r.position(args, 2, a.GuideCount())
		if !ok {
			return
		}
		_, err := m.AddGuide(a, at)
		r.report(err, "")

	case "rm":
		if len(args) < 3 {
			fmt.Fprintln(r.out, "Usage: guide rm <a> <g>")
			return
		}
		if g, ok := r.guide(a, args[2]); ok {
			r.report(m.RemoveGuide(a, g), "")
		}

	case "mv":
		if len(args) < 4 {
			fmt.Fprintln(r.out, "Usage: guide mv <a> <g> <to>")
			return
		}
		g, ok := r.guide(a, args[2])
		if !ok {
			return
		}
		if to, ok := r.position(args, 3, 0); ok {
			r.report(m.MoveGuide(a, g, to), "")
		}

	case "set":
		if len(args) < 5 {
			fmt.Fprintln(r.out, "Usage: guide set <a> <g> <field> <value>")
			return
		}
		if g, ok := r.guide(a, args[2]); ok {
			r.report(setGuideField(g, args[3], args[4:]), "")
		}

	default:
		fmt.Fprintf(r.out, "Unknown guide command: %s\n", args[0])
	}
}

func setGuideField(g *colguide.GuideModel, field string, values []string) error {
	switch field {
	case "visible":
		g.SetVisible(values[0] == "on" || values[0] == "true")
	case "column":
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return err
		}
		g.SetColumn(n)
	case "width":
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return err
		}
		g.SetWidth(n)
	case "color":
		c, err := colguide.ParseColor(values[0])
		if err != nil {
			return err
		}
		g.SetColor(c)
	case "dashes":
		dashes := []float64{}
		for _, v := range strings.Split(strings.Join(values, ","), ",") {
			if v = strings.TrimSpace(v); v == "" || v == "solid" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			dashes = append(dashes, f)
		}
		g.SetDashes(dashes)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func (r *REPL) cmdToggle(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: toggle show|stick|snap")
		return
	}
	m := r.lib.Model()
	switch args[0] {
	case "show":
		r.report(r.lib.ToggleShowGuides(), "")
	case "stick":
		m.SetStickToPage(!m.StickToPage())
	case "snap":
		m.SetSnapToPixels(!m.SnapToPixels())
	default:
		fmt.Fprintf(r.out, "Unknown flag: %s\n", args[0])
	}
}

func (r *REPL) floatArg(args []string, usage string) (float64, bool) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, usage)
		return 0, false
	}
	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(r.out, "Invalid number %q\n", args[0])
		return 0, false
	}
	return f, true
}

func (r *REPL) cmdScroll(args []string) {
	if dy, ok := r.floatArg(args, "Usage: scroll <dy>"); ok {
		r.view.Scroll(dy)
	}
}

func (r *REPL) cmdResize(args []string) {
	if h, ok := r.floatArg(args, "Usage: resize <height>"); ok {
		r.view.Resize(h)
	}
}

func (r *REPL) cmdFormat(args []string) {
	if w, ok := r.floatArg(args, "Usage: format <cell-width>"); ok {
		r.view.ChangeFormat(colguide.CellTypeface{CellWidth: w})
	}
}

func (r *REPL) cmdRename(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Usage: rename <path>")
		return
	}
	r.view.Rename(args[0])
	fmt.Fprintf(r.out, "Document is now %s (%d lines drawn)\n", r.adornment.FileName(), r.adornment.LineCount())
}
