package colguide

import (
	"slices"
)

// MemoryView is an in-memory TextView and Document. It keeps registered
// lines in registration order, which is the order a real surface paints
// them, and lets callers raise the view and document notifications.
type MemoryView struct {
	top      float64
	height   float64
	lineLeft float64
	typeface Typeface
	path     string

	lines         []*GuideLine
	registrations int
	removals      int

	viewListeners []memoryViewListener
	docListeners  []memoryDocListener
	nextSub       Subscription
}

type memoryViewListener struct {
	sub Subscription
	fn  func(ViewEvent)
}

type memoryDocListener struct {
	sub Subscription
	fn  func(DocumentEvent)
}

// NewMemoryView returns a view for path with the given viewport height,
// measuring one unit per terminal cell.
func NewMemoryView(path string, height float64) *MemoryView {
	return &MemoryView{
		height:   height,
		typeface: CellTypeface{CellWidth: 1},
		path:     path,
	}
}

func (v *MemoryView) ViewportTop() float64    { return v.top }
func (v *MemoryView) ViewportBottom() float64 { return v.top + v.height }
func (v *MemoryView) ViewportHeight() float64 { return v.height }
func (v *MemoryView) LineLeft() float64       { return v.lineLeft }
func (v *MemoryView) Typeface() Typeface      { return v.typeface }

// AddPrimitive implements TextView.
func (v *MemoryView) AddPrimitive(line *GuideLine) {
	v.lines = append(v.lines, line)
	v.registrations++
}

// RemovePrimitive implements TextView. Unknown lines are ignored.
func (v *MemoryView) RemovePrimitive(line *GuideLine) {
	if i := slices.Index(v.lines, line); i >= 0 {
		v.lines = slices.Delete(v.lines, i, i+1)
		v.removals++
	}
}

// RemoveAllPrimitives implements TextView.
func (v *MemoryView) RemoveAllPrimitives() {
	v.removals += len(v.lines)
	v.lines = nil
}

// Lines returns the registered lines in paint order.
func (v *MemoryView) Lines() []*GuideLine { return slices.Clone(v.lines) }

// Registrations returns how many times AddPrimitive has been called.
func (v *MemoryView) Registrations() int { return v.registrations }

// Removals returns how many lines have been unregistered.
func (v *MemoryView) Removals() int { return v.removals }

// ResetCounters zeroes the registration and removal counts.
func (v *MemoryView) ResetCounters() {
	v.registrations = 0
	v.removals = 0
}

// SubscribeView implements TextView.
func (v *MemoryView) SubscribeView(fn func(ViewEvent)) Subscription {
	v.nextSub++
	v.viewListeners = append(v.viewListeners, memoryViewListener{sub: v.nextSub, fn: fn})
	return v.nextSub
}

// UnsubscribeView implements TextView.
func (v *MemoryView) UnsubscribeView(sub Subscription) {
	v.viewListeners = slices.DeleteFunc(v.viewListeners, func(l memoryViewListener) bool { return l.sub == sub })
}

// FilePath implements Document.
func (v *MemoryView) FilePath() string { return v.path }

// SubscribeDocument implements Document.
func (v *MemoryView) SubscribeDocument(fn func(DocumentEvent)) Subscription {
	v.nextSub++
	v.docListeners = append(v.docListeners, memoryDocListener{sub: v.nextSub, fn: fn})
	return v.nextSub
}

// UnsubscribeDocument implements Document.
func (v *MemoryView) UnsubscribeDocument(sub Subscription) {
	v.docListeners = slices.DeleteFunc(v.docListeners, func(l memoryDocListener) bool { return l.sub == sub })
}

// ListenerCount returns the number of view and document listeners.
func (v *MemoryView) ListenerCount() int {
	return len(v.viewListeners) + len(v.docListeners)
}

// Scroll moves the viewport down by dy.
func (v *MemoryView) Scroll(dy float64) {
	if dy == 0 {
		return
	}
	v.top += dy
	v.emitView(ViewEvent{
		Kind:                ViewLayoutChanged,
		VerticalTranslation: true,
		OldViewportHeight:   v.height,
		NewViewportHeight:   v.height,
	})
}

// Resize changes the viewport height.
func (v *MemoryView) Resize(height float64) {
	old := v.height
	v.height = height
	v.emitView(ViewEvent{
		Kind:              ViewLayoutChanged,
		OldViewportHeight: old,
		NewViewportHeight: height,
	})
}

// SetLineLeft moves the left edge of the text. Real surfaces report this
// through a format change, so callers normally follow with ChangeFormat.
func (v *MemoryView) SetLineLeft(left float64) {
	v.lineLeft = left
}

// ChangeFormat switches the typeface. A nil typeface means no formatted
// text.
func (v *MemoryView) ChangeFormat(tf Typeface) {
	v.typeface = tf
	v.emitView(ViewEvent{Kind: ViewFormatChanged})
}

// Rename changes the document path.
func (v *MemoryView) Rename(path string) {
	v.path = path
	v.emitDocument(DocumentEvent{Kind: DocumentRenamed, FilePath: path})
}

// Save raises a saved notification without changing anything.
func (v *MemoryView) Save() {
	v.emitDocument(DocumentEvent{Kind: DocumentSaved, FilePath: v.path})
}

// CloseView raises the close notification.
func (v *MemoryView) CloseView() {
	v.emitView(ViewEvent{Kind: ViewClosed})
}

func (v *MemoryView) emitView(e ViewEvent) {
	for _, l := range slices.Clone(v.viewListeners) {
		l.fn(e)
	}
}

func (v *MemoryView) emitDocument(e DocumentEvent) {
	for _, l := range slices.Clone(v.docListeners) {
		l.fn(e)
	}
}
