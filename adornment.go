package colguide

import (
	"log/slog"
	"path/filepath"
	"slices"
)

// Adornment keeps one TextView's guide lines in step with the shared
// OptionsModel. Lines are registered with the view in paint order: groups
// by association index, lines within a group by guide index. Any change
// that inserts or moves a line unregisters every line after the change
// point and registers them again, so paint order never depends on the
// surface's own ordering.
//
// An Adornment is driven entirely by events on the view's goroutine and is
// not safe for concurrent use.
type Adornment struct {
	lib  *Library
	id   string
	view TextView
	doc  Document

	model       *OptionsModel
	columnWidth *ColumnWidth
	logger      *slog.Logger
	metrics     *metrics

	lines projection

	fileName      string
	fileNameValid bool

	modelSub Subscription
	viewSub  Subscription
	docSub   Subscription
	closed   bool
}

func newAdornment(lib *Library, id string, view TextView, doc Document) *Adornment {
	a := &Adornment{
		lib:         lib,
		id:          id,
		view:        view,
		doc:         doc,
		model:       lib.model,
		columnWidth: NewColumnWidth(view, lib.model.Settings()),
		logger:      lib.logger.With("adornment", id),
		metrics:     lib.metrics,
	}

	a.modelSub = a.model.Subscribe(a.handleEvent)
	a.viewSub = view.SubscribeView(a.handleViewEvent)
	a.docSub = doc.SubscribeDocument(a.handleDocumentEvent)

	a.initializeLines()
	return a
}

// ID returns the adornment's unique identifier.
func (a *Adornment) ID() string { return a.id }

// View returns the surface the adornment draws on.
func (a *Adornment) View() TextView { return a.view }

// FileName returns the document's base name as used for matching.
func (a *Adornment) FileName() string {
	if !a.fileNameValid {
		a.fileName = ""
		if p := a.doc.FilePath(); p != "" {
			a.fileName = filepath.Base(p)
		}
		a.fileNameValid = true
	}
	return a.fileName
}

// Snapshot returns a copy of the rendered groups in paint order.
func (a *Adornment) Snapshot() []GroupSnapshot {
	return a.lines.snapshot()
}

// LineCount returns the number of lines currently registered.
func (a *Adornment) LineCount() int {
	return a.lines.lineCount()
}

// Closed reports whether the adornment has been torn down.
func (a *Adornment) Closed() bool { return a.closed }

// Close unsubscribes from the model, the view and the document, then
// removes every line from the view. Calling Close again does nothing.
func (a *Adornment) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.model.Unsubscribe(a.modelSub)
	a.view.UnsubscribeView(a.viewSub)
	a.doc.UnsubscribeDocument(a.docSub)

	a.clearLines()

	if a.lib != nil {
		a.lib.forget(a)
	}
	a.logger.Debug("adornment closed")
}

func (a *Adornment) state() ViewerState {
	return ViewerState{ShowGuides: a.model.ShowGuides(), FileName: a.FileName()}
}

func (a *Adornment) associationEligible(assoc *AssociationModel, flags AssociationFlags) bool {
	return AssociationEligible(a.state(), assoc, flags)
}

func (a *Adornment) guideEligible(assoc *AssociationModel, g *GuideModel, flags GuideFlags) bool {
	return GuideEligible(a.state(), assoc, g, flags)
}

func (a *Adornment) handleEvent(e Event) {
	if a.closed {
		return
	}
	a.metrics.event(e.Kind)

	switch e.Kind {
	case EventOptionsReset:
		a.resetLines()

	case EventOptionsPropertyChanged:
		a.optionsPropertyChanged(e.Property)

	case EventAssociationAdded:
		if a.associationEligible(e.Association, 0) {
			a.addAssociation(e.Association)
		}

	case EventAssociationRemoved:
		a.removeAssociation(e.Association)

	case EventAssociationMoved:
		if a.associationEligible(e.Association, 0) {
			a.moveAssociation(e.Association)
		}

	case EventAssociationPropertyChanged:
		a.associationPropertyChanged(e.Association, e.Property)

	case EventGuideAdded:
		if a.guideEligible(e.Association, e.Guide, 0) {
			a.addGuide(e.Association, e.Guide)
		}

	case EventGuideRemoved:
		a.removeGuide(e.Association, e.Guide)

	case EventGuideMoved:
		if a.guideEligible(e.Association, e.Guide, 0) {
			a.moveGuide(e.Association, e.Guide)
		}

	case EventGuidePropertyChanged:
		a.guidePropertyChanged(e.Association, e.Guide, e.Property)
	}
}

func (a *Adornment) handleViewEvent(e ViewEvent) {
	if a.closed {
		return
	}
	switch e.Kind {
	case ViewLayoutChanged:
		if e.VerticalTranslation || e.OldViewportHeight != e.NewViewportHeight {
			a.updateVerticalSpan()
		}

	case ViewFormatChanged:
		a.columnWidth.Invalidate()
		a.updateColumns()

	case ViewClosed:
		a.Close()
	}
}

func (a *Adornment) handleDocumentEvent(e DocumentEvent) {
	if a.closed || e.Kind != DocumentRenamed {
		return
	}
	a.fileNameValid = false
	a.resetLines()
}

func (a *Adornment) optionsPropertyChanged(p Property) {
	switch p {
	case PropertyShowGuides:
		if a.model.ShowGuides() {
			a.resetLines()
		} else {
			a.clearLines()
		}

	case PropertyStickToPage:
		a.lines.each(0, 0, func(r renderedGuide) {
			r.line.StrokeDashOffset = a.dashOffset(r.guide)
		})

	case PropertySnapToPixels:
		snap := a.model.SnapToPixels()
		a.lines.each(0, 0, func(r renderedGuide) {
			r.line.SnapsToDevicePixels = snap
		})
		// The surface only reads the flag at registration.
		a.unregisterFrom(0, 0)
		a.registerFrom(0, 0)
	}
}

func (a *Adornment) associationPropertyChanged(assoc *AssociationModel, p Property) {
	switch p {
	case PropertyEnabled:
		if !a.associationEligible(assoc, SkipEnabled) {
			return
		}
		if assoc.Enabled() {
			a.addAssociation(assoc)
		} else {
			a.removeAssociation(assoc)
		}

	case PropertyFileTypes:
		if !a.associationEligible(assoc, SkipFileTypes) {
			return
		}
		has := a.lines.findGroup(assoc.ID()) >= 0
		matches := assoc.Matches(a.FileName())
		switch {
		case matches && !has:
			a.addAssociation(assoc)
		case !matches && has:
			a.removeAssociation(assoc)
		}
	}
}

func (a *Adornment) guidePropertyChanged(assoc *AssociationModel, g *GuideModel, p Property) {
	if p == PropertyVisible {
		if !a.guideEligible(assoc, g, SkipVisible) {
			return
		}
		if g.Visible() {
			a.addGuide(assoc, g)
		} else {
			a.removeGuide(assoc, g)
		}
		return
	}

	if !a.guideEligible(assoc, g, 0) {
		return
	}
	gi := a.lines.findGroup(assoc.ID())
	if gi < 0 {
		return
	}
	li := a.lines.groups[gi].findLine(g.ID())
	if li < 0 {
		return
	}
	line := a.lines.groups[gi].rendered[li].line

	switch p {
	case PropertyColumn:
		x := a.columnX(g)
		line.X1, line.X2 = x, x
	case PropertyColor:
		line.Stroke = g.Color()
	case PropertyWidth:
		line.StrokeThickness = float64(g.Width())
		line.StrokeDashOffset = a.dashOffset(g)
	case PropertyDashes:
		line.StrokeDashArray = g.Dashes()
	}
}

// initializeLines builds a group for every eligible association and
// registers the lines in order. The projection must be empty.
func (a *Adornment) initializeLines() {
	debugAssert(len(a.lines.groups) == 0, "initializing a non-empty projection")

	for _, assoc := range a.model.Associations() {
		if !a.associationEligible(assoc, 0) {
			continue
		}
		group := a.newGroup(assoc)
		if len(group.rendered) == 0 {
			continue
		}
		a.lines.groups = append(a.lines.groups, group)
		for _, r := range group.rendered {
			a.register(r.line)
		}
	}
}

func (a *Adornment) clearLines() {
	n := a.lines.lineCount()
	a.view.RemoveAllPrimitives()
	a.lines.clear()
	a.metrics.linesRemoved(n)
}

func (a *Adornment) resetLines() {
	a.logger.Debug("rebuilding guide lines", "file", a.FileName())
	a.clearLines()
	a.initializeLines()
}

func (a *Adornment) updateVerticalSpan() {
	top, bottom := a.view.ViewportTop(), a.view.ViewportBottom()
	a.lines.each(0, 0, func(r renderedGuide) {
		r.line.Y1 = top
		r.line.Y2 = bottom
		r.line.StrokeDashOffset = a.dashOffset(r.guide)
	})
}

func (a *Adornment) updateColumns() {
	a.lines.each(0, 0, func(r renderedGuide) {
		x := a.columnX(r.guide)
		r.line.X1, r.line.X2 = x, x
	})
}

func (a *Adornment) newGroup(assoc *AssociationModel) *guideGroup {
	group := &guideGroup{association: assoc}
	for _, g := range assoc.guides {
		if g.Visible() {
			group.rendered = append(group.rendered, renderedGuide{guide: g, line: a.newGuideLine(g)})
		}
	}
	return group
}

func (a *Adornment) addAssociation(assoc *AssociationModel) {
	if a.lines.findGroup(assoc.ID()) >= 0 {
		debugAssert(false, "association already rendered")
		return
	}
	group := a.newGroup(assoc)
	if len(group.rendered) == 0 {
		return
	}

	gi := a.lines.groupLowerBound(assoc.Index())
	a.unregisterFrom(gi, 0)
	a.lines.groups = slices.Insert(a.lines.groups, gi, group)
	a.registerFrom(gi, 0)
}

func (a *Adornment) removeAssociation(assoc *AssociationModel) {
	gi := a.lines.findGroup(assoc.ID())
	if gi < 0 {
		return
	}
	for _, r := range a.lines.groups[gi].rendered {
		a.unregister(r.line)
	}
	a.lines.groups = slices.Delete(a.lines.groups, gi, gi+1)
}

func (a *Adornment) moveAssociation(assoc *AssociationModel) {
	old := a.lines.findGroup(assoc.ID())
	if old < 0 {
		a.logger.Debug("ignoring move of unrendered association", "association", assoc.ID())
		return
	}
	group := a.lines.groups[old]
	for _, r := range group.rendered {
		a.unregister(r.line)
	}
	a.lines.groups = slices.Delete(a.lines.groups, old, old+1)

	gi := a.lines.groupLowerBound(assoc.Index())
	a.unregisterFrom(gi, 0)
	a.lines.groups = slices.Insert(a.lines.groups, gi, group)
	a.registerFrom(gi, 0)
}

func (a *Adornment) addGuide(assoc *AssociationModel, g *GuideModel) {
	gi := a.lines.groupLowerBound(assoc.Index())
	li := 0
	if gi < len(a.lines.groups) && a.lines.groups[gi].association == assoc {
		group := a.lines.groups[gi]
		if group.findLine(g.ID()) >= 0 {
			debugAssert(false, "guide already rendered")
			return
		}
		li = group.lineLowerBound(g.Index())
	} else {
		a.lines.groups = slices.Insert(a.lines.groups, gi, &guideGroup{association: assoc})
	}

	a.unregisterFrom(gi, li)
	group := a.lines.groups[gi]
	group.rendered = slices.Insert(group.rendered, li, renderedGuide{guide: g, line: a.newGuideLine(g)})
	a.registerFrom(gi, li)
}

func (a *Adornment) removeGuide(assoc *AssociationModel, g *GuideModel) {
	gi := a.lines.findGroup(assoc.ID())
	if gi < 0 {
		return
	}
	group := a.lines.groups[gi]
	li := group.findLine(g.ID())
	if li < 0 {
		return
	}
	a.unregister(group.rendered[li].line)
	group.rendered = slices.Delete(group.rendered, li, li+1)
	if len(group.rendered) == 0 {
		a.lines.groups = slices.Delete(a.lines.groups, gi, gi+1)
	}
}

func (a *Adornment) moveGuide(assoc *AssociationModel, g *GuideModel) {
	gi := a.lines.findGroup(assoc.ID())
	if gi < 0 {
		return
	}
	group := a.lines.groups[gi]
	old := group.findLine(g.ID())
	if old < 0 {
		debugAssert(false, "moved guide is not rendered")
		return
	}
	r := group.rendered[old]
	a.unregister(r.line)
	group.rendered = slices.Delete(group.rendered, old, old+1)

	li := group.lineLowerBound(g.Index())
	a.unregisterFrom(gi, li)
	group.rendered = slices.Insert(group.rendered, li, r)
	a.registerFrom(gi, li)
}

func (a *Adornment) register(line *GuideLine) {
	a.view.AddPrimitive(line)
	a.metrics.lineAdded()
}

func (a *Adornment) unregister(line *GuideLine) {
	a.view.RemovePrimitive(line)
	a.metrics.linesRemoved(1)
}

func (a *Adornment) registerFrom(gi, li int) {
	a.lines.each(gi, li, func(r renderedGuide) { a.register(r.line) })
}

func (a *Adornment) unregisterFrom(gi, li int) {
	a.lines.each(gi, li, func(r renderedGuide) { a.unregister(r.line) })
}
