package colguide

import (
	"math"
	"strings"
	"unicode/utf8"
)

// monospaceTolerance is how far two probe advances may differ and still
// count as the same width.
const monospaceTolerance = 1e-10

// ColumnWidth resolves the horizontal size of one text column for a view
// and caches it until Invalidate is called.
type ColumnWidth struct {
	view     TextView
	settings *DefaultSettings

	width float64
	valid bool
}

// NewColumnWidth returns a resolver for view.
func NewColumnWidth(view TextView, settings *DefaultSettings) *ColumnWidth {
	if settings == nil {
		settings = FactoryDefaults()
	}
	return &ColumnWidth{view: view, settings: settings}
}

// Width returns the column width, measuring on first use after an
// invalidation.
func (c *ColumnWidth) Width() float64 {
	if !c.valid {
		c.width = c.measure()
		c.valid = true
	}
	return c.width
}

// Invalidate discards the cached width.
func (c *ColumnWidth) Invalidate() {
	c.valid = false
}

func (c *ColumnWidth) measure() float64 {
	tf := c.view.Typeface()
	if tf == nil {
		return 0
	}

	probe1 := firstRune(c.settings.MonospaceTestCharacter1, 'M')
	probe2 := firstRune(c.settings.MonospaceTestCharacter2, '.')
	a1, ok1 := tf.Advance(probe1)
	a2, ok2 := tf.Advance(probe2)
	if !ok1 || !ok2 {
		return tf.ColumnWidth()
	}
	if math.Abs(a1-a2) < monospaceTolerance {
		return a1
	}

	n := max(c.settings.ProportionalColumnMeasurementStringLength, 1)
	run := strings.Repeat(string(firstRune(c.settings.ProportionalColumnWidthCharacter, 'x')), n)
	w, ok := tf.MeasureRun(run)
	if !ok {
		return tf.ColumnWidth()
	}
	return w / float64(n)
}

func firstRune(s string, fallback rune) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return fallback
	}
	return r
}
