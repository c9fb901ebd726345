package colguide

// ViewEventKind identifies a notification raised by a TextView.
type ViewEventKind int

const (
	// ViewLayoutChanged indicates the viewport scrolled or was resized.
	ViewLayoutChanged ViewEventKind = iota

	// ViewFormatChanged indicates fonts or other text formatting changed.
	ViewFormatChanged

	// ViewClosed indicates the view is going away.
	ViewClosed
)

// ViewEvent is one TextView notification.
type ViewEvent struct {
	Kind ViewEventKind

	// Layout details, valid for ViewLayoutChanged.
	VerticalTranslation bool
	OldViewportHeight   float64
	NewViewportHeight   float64
}

// TextView is the host text surface guides are drawn on. Its methods are
// called on the view's own goroutine only.
type TextView interface {
	// Viewport geometry in surface coordinates.
	ViewportTop() float64
	ViewportBottom() float64

	// LineLeft returns the left edge of the first formatted text line, or 0
	// when no lines are formatted.
	LineLeft() float64

	// Typeface returns the font used for column measurement, or nil when
	// the view has no formatted text yet.
	Typeface() Typeface

	// Primitive registration. Paint order is registration order.
	AddPrimitive(line *GuideLine)
	RemovePrimitive(line *GuideLine)
	RemoveAllPrimitives()

	SubscribeView(fn func(ViewEvent)) Subscription
	UnsubscribeView(sub Subscription)
}

// DocumentEventKind identifies a notification raised by a Document.
type DocumentEventKind int

const (
	// DocumentRenamed indicates the document's file path changed.
	DocumentRenamed DocumentEventKind = iota

	// DocumentSaved indicates the document was written to disk.
	DocumentSaved
)

// DocumentEvent is one Document notification.
type DocumentEvent struct {
	Kind     DocumentEventKind
	FilePath string
}

// Document is the text document shown in a TextView.
type Document interface {
	FilePath() string

	SubscribeDocument(fn func(DocumentEvent)) Subscription
	UnsubscribeDocument(sub Subscription)
}
