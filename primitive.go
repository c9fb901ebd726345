package colguide

import "slices"

// GuideLine is one vertical line registered with a TextView. The tag links
// it to the guide it draws and never changes.
type GuideLine struct {
	tag GuideID

	X1, Y1, X2, Y2 float64

	Stroke              Color
	StrokeThickness     float64
	StrokeDashArray     []float64
	StrokeDashOffset    float64
	SnapsToDevicePixels bool
}

// Tag returns the ID of the guide this line draws.
func (l *GuideLine) Tag() GuideID { return l.tag }

// Clone returns a detached copy with the same tag.
func (l *GuideLine) Clone() GuideLine {
	c := *l
	c.StrokeDashArray = slices.Clone(l.StrokeDashArray)
	return c
}

// newGuideLine builds the line for g against the view's current geometry.
func (a *Adornment) newGuideLine(g *GuideModel) *GuideLine {
	x := a.columnX(g)
	return &GuideLine{
		tag:                 g.ID(),
		X1:                  x,
		X2:                  x,
		Y1:                  a.view.ViewportTop(),
		Y2:                  a.view.ViewportBottom(),
		Stroke:              g.Color(),
		StrokeThickness:     float64(g.Width()),
		StrokeDashArray:     g.Dashes(),
		StrokeDashOffset:    a.dashOffset(g),
		SnapsToDevicePixels: a.model.SnapToPixels(),
	}
}

func (a *Adornment) columnX(g *GuideModel) float64 {
	return a.view.LineLeft() + float64(g.Column())*a.columnWidth.Width()
}

// dashOffset keeps the dash pattern fixed to the page when StickToPage is
// on, so dashes scroll with the text.
func (a *Adornment) dashOffset(g *GuideModel) float64 {
	if !a.model.StickToPage() || g.Width() <= 0 {
		return 0
	}
	return a.view.ViewportTop() / float64(g.Width())
}
