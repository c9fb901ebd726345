// Package colguide draws vertical column guides over a text view and keeps
// them in step with an editable tree of file-type associations.
package colguide

import "errors"

// Model errors
var (
	// ErrAssociationNotFound indicates that an association does not belong to the model.
	ErrAssociationNotFound = errors.New("association not found")

	// ErrGuideNotFound indicates that a guide does not belong to the association.
	ErrGuideNotFound = errors.New("guide not found")

	// ErrIndexOutOfRange indicates that an insert or move position is out of bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTooManyAssociations indicates that the association limit has been reached.
	ErrTooManyAssociations = errors.New("association limit reached")

	// ErrTooManyGuides indicates that the per-association guide limit has been reached.
	ErrTooManyGuides = errors.New("guide limit reached")
)

// Settings errors
var (
	// ErrInvalidSettings indicates that a settings document could not be decoded.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrNoSettingsPath indicates that the settings store has no file to read or write.
	ErrNoSettingsPath = errors.New("settings path not configured")

	// ErrInvalidColor indicates that a color string is not #RRGGBB or #AARRGGBB.
	ErrInvalidColor = errors.New("invalid color")
)

// Attachment errors
var (
	// ErrNilView indicates that Attach was called without a text view.
	ErrNilView = errors.New("text view is required")

	// ErrNilDocument indicates that Attach was called without a document.
	ErrNilDocument = errors.New("document is required")

	// ErrLibraryClosed indicates that the library has already been closed.
	ErrLibraryClosed = errors.New("library closed")
)

// Watch errors
var (
	// ErrWatcherRunning indicates that Start was called on a running watcher.
	ErrWatcherRunning = errors.New("watcher already running")

	// ErrNoDispatcher indicates that Watch was called without LibraryOptions.Dispatch.
	ErrNoDispatcher = errors.New("watch requires a dispatcher")
)
