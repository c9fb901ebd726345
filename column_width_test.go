package colguide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func loadFace(t *testing.T, ttf []byte) font.Face {
	t.Helper()
	f, err := opentype.Parse(ttf)
	require.NoError(t, err)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingNone})
	require.NoError(t, err)
	t.Cleanup(func() { face.Close() })
	return face
}

// stubTypeface reports fixed measurements.
type stubTypeface struct {
	advances map[rune]float64
	run      float64
	runOK    bool
	nominal  float64
	measured []string
}

func (s *stubTypeface) Advance(r rune) (float64, bool) {
	w, ok := s.advances[r]
	return w, ok
}

func (s *stubTypeface) MeasureRun(str string) (float64, bool) {
	s.measured = append(s.measured, str)
	return s.run, s.runOK
}

func (s *stubTypeface) ColumnWidth() float64 { return s.nominal }

func TestColumnWidthMonospace(t *testing.T) {
	v := NewMemoryView("a.go", 100)
	tf := &stubTypeface{advances: map[rune]float64{'M': 7.5, '.': 7.5}, nominal: 9}
	v.ChangeFormat(tf)

	assert.Equal(t, 7.5, NewColumnWidth(v, nil).Width())
	assert.Empty(t, tf.measured)
}

func TestColumnWidthProportional(t *testing.T) {
	v := NewMemoryView("a.go", 100)
	tf := &stubTypeface{advances: map[rune]float64{'M': 11, '.': 3}, run: 128 * 6.25, runOK: true}
	v.ChangeFormat(tf)

	assert.Equal(t, 6.25, NewColumnWidth(v, nil).Width())
	require.Len(t, tf.measured, 1)
	assert.Len(t, tf.measured[0], 128)
}

func TestColumnWidthFallbacks(t *testing.T) {
	v := NewMemoryView("a.go", 100)
	v.ChangeFormat(nil)
	assert.Zero(t, NewColumnWidth(v, nil).Width())

	v.ChangeFormat(&stubTypeface{advances: map[rune]float64{'M': 7}, nominal: 8})
	assert.Equal(t, 8.0, NewColumnWidth(v, nil).Width(), "missing glyph uses the nominal width")

	v.ChangeFormat(&stubTypeface{advances: map[rune]float64{'M': 7, '.': 3}})
	assert.Zero(t, NewColumnWidth(v, nil).Width(), "unmeasurable run with no nominal width")
}

func TestColumnWidthCachesUntilInvalidated(t *testing.T) {
	v := NewMemoryView("a.go", 100)
	v.ChangeFormat(CellTypeface{CellWidth: 2})
	cw := NewColumnWidth(v, nil)
	require.Equal(t, 2.0, cw.Width())

	v.typeface = CellTypeface{CellWidth: 5}
	assert.Equal(t, 2.0, cw.Width())

	cw.Invalidate()
	assert.Equal(t, 5.0, cw.Width())
}

func TestColumnWidthCustomProbes(t *testing.T) {
	settings := FactoryDefaults()
	settings.MonospaceTestCharacter1 = "W"
	settings.MonospaceTestCharacter2 = "i"
	settings.ProportionalColumnMeasurementStringLength = 10
	v := NewMemoryView("a.go", 100)
	tf := &stubTypeface{advances: map[rune]float64{'W': 9, 'i': 2}, run: 45, runOK: true}
	v.ChangeFormat(tf)

	assert.Equal(t, 4.5, NewColumnWidth(v, settings).Width())
	assert.Equal(t, []string{"xxxxxxxxxx"}, tf.measured)
}

func TestFaceTypefaces(t *testing.T) {
	v := NewMemoryView("a.go", 100)

	mono := FaceTypeface{Face: loadFace(t, gomono.TTF)}
	m, ok := mono.Advance('M')
	require.True(t, ok)
	v.ChangeFormat(mono)
	assert.InDelta(t, m, NewColumnWidth(v, nil).Width(), 1e-9)

	regular := FaceTypeface{Face: loadFace(t, goregular.TTF)}
	x, ok := regular.Advance('x')
	require.True(t, ok)
	v.ChangeFormat(regular)
	assert.InDelta(t, x, NewColumnWidth(v, nil).Width(), 0.1)

	basic := FaceTypeface{Face: basicfont.Face7x13}
	v.ChangeFormat(basic)
	assert.Equal(t, 7.0, NewColumnWidth(v, nil).Width())
	assert.Equal(t, 7.0, basic.ColumnWidth())
}

func TestCellTypeface(t *testing.T) {
	tf := CellTypeface{CellWidth: 2}

	w, ok := tf.Advance('a')
	assert.True(t, ok)
	assert.Equal(t, 2.0, w)

	w, ok = tf.Advance('世')
	assert.True(t, ok)
	assert.Equal(t, 4.0, w)

	_, ok = tf.Advance('\u0301')
	assert.False(t, ok)

	w, ok = tf.MeasureRun("ab世")
	assert.True(t, ok)
	assert.Equal(t, 8.0, w)
}
