package colguide

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Typeface measures glyphs in surface units.
type Typeface interface {
	// Advance returns the advance width of r. ok is false when the face
	// has no glyph data for r.
	Advance(r rune) (width float64, ok bool)

	// MeasureRun returns the width of s laid out on one line. ok is false
	// when the run cannot be measured.
	MeasureRun(s string) (width float64, ok bool)

	// ColumnWidth returns the face's nominal column width, or 0 when the
	// face does not report one.
	ColumnWidth() float64
}

// FaceTypeface measures with an x/image font face, for example one loaded
// through opentype.NewFace or the fixed-size basicfont.Face7x13.
type FaceTypeface struct {
	Face font.Face
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Advance implements Typeface.
func (t FaceTypeface) Advance(r rune) (float64, bool) {
	if t.Face == nil {
		return 0, false
	}
	adv, ok := t.Face.GlyphAdvance(r)
	if !ok {
		return 0, false
	}
	return fixedToFloat(adv), true
}

// MeasureRun implements Typeface.
func (t FaceTypeface) MeasureRun(s string) (float64, bool) {
	if t.Face == nil {
		return 0, false
	}
	return fixedToFloat(font.MeasureString(t.Face, s)), true
}

// ColumnWidth implements Typeface using the advance of the digit zero.
func (t FaceTypeface) ColumnWidth() float64 {
	w, _ := t.Advance('0')
	return w
}

// CellTypeface measures terminal cells: every rune occupies
// runewidth.RuneWidth cells of CellWidth units each.
type CellTypeface struct {
	CellWidth float64
}

// Advance implements Typeface. Zero-width runes report no glyph data.
func (t CellTypeface) Advance(r rune) (float64, bool) {
	cells := runewidth.RuneWidth(r)
	if cells == 0 {
		return 0, false
	}
	return float64(cells) * t.CellWidth, true
}

// MeasureRun implements Typeface.
func (t CellTypeface) MeasureRun(s string) (float64, bool) {
	return float64(runewidth.StringWidth(s)) * t.CellWidth, true
}

// ColumnWidth implements Typeface.
func (t CellTypeface) ColumnWidth() float64 {
	return t.CellWidth
}
