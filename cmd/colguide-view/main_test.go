package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/phroun/colguide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCells(t *testing.T) {
	assert.Equal(t, []string{"a", " ", " ", " ", "b"}, cells("a\tb"))
	assert.Equal(t, []string{"世", "", "x"}, cells("世x"))
	assert.Equal(t, []string{"é"}, cells("é"))
	assert.Equal(t, []string{" "}, cells("\x01"))
}

func TestRenderRowPlacesGuidesOnBlankCells(t *testing.T) {
	marks := map[int]guideMark{
		1: {style: lipgloss.NewStyle()},
		4: {style: lipgloss.NewStyle(), dashed: true},
	}
	assert.Equal(t, "ab  ┆ ", renderRow("ab", marks, 6))
	assert.Equal(t, "a│", renderRow("a", marks, 2))
	assert.Equal(t, "a", renderRow("a世", nil, 2), "wide rune clipped at the edge")
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, splitLines("one\r\ntwo\n"))
	assert.Equal(t, []string{""}, splitLines(""))
}

func TestModelScrollAndGuides(t *testing.T) {
	lib, err := colguide.Init(colguide.LibraryOptions{})
	require.NoError(t, err)
	defer lib.Close()

	m := &model{
		lib:   lib,
		view:  colguide.NewMemoryView("main.go", 10),
		lines: strings.Split(strings.Repeat("x\n", 40), "\n"),
	}
	m.view.SetLineLeft(gutterWidth)
	m.view.ChangeFormat(colguide.CellTypeface{CellWidth: 1})
	_, err = lib.Attach(m.view, m.view)
	require.NoError(t, err)

	m.width, m.height = 100, 11
	m.view.Resize(10)

	marks := m.guideColumns()
	assert.Contains(t, marks, 80)

	m.scroll(-5)
	assert.Zero(t, m.view.ViewportTop())
	m.scroll(1000)
	assert.Equal(t, float64(len(m.lines)-10), m.view.ViewportTop())

	out := m.View()
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "│")
}
