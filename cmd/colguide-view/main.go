// colguide-view pages through a text file in the terminal and draws the
// column guides the configuration assigns to it.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/phroun/colguide"
	"github.com/spf13/cobra"
)

const (
	gutterWidth = 6
	tabWidth    = 4
)

var (
	settingsPath string
	optionsPath  string
	logFile      string
	watch        bool
)

var (
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Reverse(true)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "colguide-view FILE",
		Short: "Preview a file with its column guides",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().StringVar(&settingsPath, "settings", "", "YAML file with defaults and limits")
	rootCmd.Flags().StringVar(&optionsPath, "options", "", "JSON file the configuration is loaded from")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload the options file when it changes")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dispatchMsg carries work from the settings watcher onto the UI loop.
type dispatchMsg func()

type model struct {
	lib    *colguide.Library
	view   *colguide.MemoryView
	lines  []string
	width  int
	height int
	status string
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var prog *tea.Program
	lib, err := colguide.Init(colguide.LibraryOptions{
		SettingsPath: settingsPath,
		OptionsPath:  optionsPath,
		Logger:       logger,
		Dispatch: func(fn func()) {
			prog.Send(dispatchMsg(fn))
		},
	})
	if err != nil {
		return fmt.Errorf("initializing library: %w", err)
	}
	defer lib.Close()

	m := &model{
		lib:   lib,
		view:  colguide.NewMemoryView(path, 24),
		lines: splitLines(string(data)),
	}
	m.view.SetLineLeft(gutterWidth)
	m.view.ChangeFormat(colguide.CellTypeface{CellWidth: 1})
	if _, err := lib.Attach(m.view, m.view); err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		m.width, m.height = 80, 25
		m.view.Resize(float64(m.height - 1))
		fmt.Fprint(cmd.OutOrStdout(), m.View())
		return nil
	}

	prog = tea.NewProgram(m, tea.WithAltScreen())
	if watch && optionsPath != "" {
		if err := lib.Watch(cmd.Context()); err != nil {
			return err
		}
	}
	_, err = prog.Run()
	return err
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Resize(float64(max(m.height-1, 0)))
		m.scroll(0)

	case tea.KeyMsg:
		rows := max(m.height-1, 1)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-rows)
		case "pgdown", " ", "f":
			m.scroll(rows)
		case "home":
			m.scroll(-len(m.lines))
		case "end":
			m.scroll(len(m.lines))
		case "g":
			if err := m.lib.ToggleShowGuides(); err != nil {
				m.status = err.Error()
			} else {
				m.status = ""
			}
		}

	case dispatchMsg:
		msg()
		m.status = "options reloaded"
	}
	return m, nil
}

// scroll moves the viewport by dy lines, keeping it inside the file.
func (m *model) scroll(dy int) {
	rows := max(m.height-1, 0)
	top := int(m.view.ViewportTop())
	target := min(max(top+dy, 0), max(len(m.lines)-rows, 0))
	m.view.Scroll(float64(target - top))
}

type guideMark struct {
	style  lipgloss.Style
	dashed bool
}

// guideColumns maps text columns to the guide drawn there. Later lines
// paint over earlier ones.
func (m *model) guideColumns() map[int]guideMark {
	marks := make(map[int]guideMark)
	for _, line := range m.view.Lines() {
		col := int(math.Round(line.X1 - m.view.LineLeft()))
		if col < 0 {
			continue
		}
		marks[col] = guideMark{
			style:  lipgloss.NewStyle().Foreground(lipgloss.Color(line.Stroke.Hex())),
			dashed: len(line.StrokeDashArray) > 0,
		}
	}
	return marks
}

func (g guideMark) render() string {
	if g.dashed {
		return g.style.Render("┆")
	}
	return g.style.Render("│")
}

// View implements tea.Model.
func (m *model) View() string {
	if m.height <= 0 {
		return ""
	}
	rows := m.height - 1
	top := int(m.view.ViewportTop())
	marks := m.guideColumns()
	textWidth := max(m.width-gutterWidth, 0)

	var b strings.Builder
	for i := range rows {
		n := top + i
		if n < len(m.lines) {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%*d ", gutterWidth-1, n+1)))
			b.WriteString(renderRow(m.lines[n], marks, textWidth))
		} else {
			b.WriteString(strings.Repeat(" ", gutterWidth))
			b.WriteString(renderRow("", marks, textWidth))
		}
		b.WriteByte('\n')
	}

	status := fmt.Sprintf(" %s  %d/%d  guides %d", filepath.Base(m.view.FilePath()),
		min(top+rows, len(m.lines)), len(m.lines), len(m.view.Lines()))
	if m.status != "" {
		status += "  " + m.status
	}
	b.WriteString(statusStyle.Width(m.width).Render(status))
	return b.String()
}

// cells lays text out one entry per terminal cell. Wide runes leave an
// empty continuation entry behind them.
func cells(text string) []string {
	var out []string
	for _, r := range text {
		switch {
		case r == '\t':
			out = append(out, " ")
			for len(out)%tabWidth != 0 {
				out = append(out, " ")
			}
			continue
		case r < 0x20 || r == 0x7f:
			out = append(out, " ")
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			if len(out) > 0 {
				out[len(out)-1] += string(r)
			}
			continue
		}
		out = append(out, string(r))
		for range w - 1 {
			out = append(out, "")
		}
	}
	return out
}

func renderRow(text string, marks map[int]guideMark, width int) string {
	row := cells(text)
	var b strings.Builder
	for c := 0; c < width; c++ {
		s := " "
		if c < len(row) {
			s = row[c]
		}
		if s == "" {
			continue
		}
		if mark, ok := marks[c]; ok && s == " " {
			b.WriteString(mark.render())
			continue
		}
		if runewidth.StringWidth(s) > width-c {
			break
		}
		b.WriteString(s)
	}
	return b.String()
}
