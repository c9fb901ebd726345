package colguide

// EventKind identifies a change raised by the options model.
type EventKind int

const (
	// EventOptionsReset indicates the whole tree was replaced.
	EventOptionsReset EventKind = iota

	// EventOptionsPropertyChanged indicates a global flag changed.
	EventOptionsPropertyChanged

	// EventAssociationAdded indicates an association was inserted.
	EventAssociationAdded

	// EventAssociationRemoved indicates an association was removed.
	EventAssociationRemoved

	// EventAssociationMoved indicates an association changed position.
	EventAssociationMoved

	// EventAssociationPropertyChanged indicates Enabled or FileTypes changed.
	EventAssociationPropertyChanged

	// EventGuideAdded indicates a guide was inserted into an association.
	EventGuideAdded

	// EventGuideRemoved indicates a guide was removed from an association.
	EventGuideRemoved

	// EventGuideMoved indicates a guide changed position within its association.
	EventGuideMoved

	// EventGuidePropertyChanged indicates one of a guide's fields changed.
	EventGuidePropertyChanged
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventOptionsReset:
		return "options_reset"
	case EventOptionsPropertyChanged:
		return "options_property"
	case EventAssociationAdded:
		return "association_added"
	case EventAssociationRemoved:
		return "association_removed"
	case EventAssociationMoved:
		return "association_moved"
	case EventAssociationPropertyChanged:
		return "association_property"
	case EventGuideAdded:
		return "guide_added"
	case EventGuideRemoved:
		return "guide_removed"
	case EventGuideMoved:
		return "guide_moved"
	case EventGuidePropertyChanged:
		return "guide_property"
	default:
		return "unknown"
	}
}

// Property names the field carried by a property-change event.
type Property int

const (
	PropertyNone Property = iota

	// Options
	PropertyShowGuides
	PropertyStickToPage
	PropertySnapToPixels

	// Association
	PropertyEnabled
	PropertyFileTypes

	// Guide
	PropertyVisible
	PropertyColumn
	PropertyColor
	PropertyWidth
	PropertyDashes
)

// String returns the property name.
func (p Property) String() string {
	switch p {
	case PropertyShowGuides:
		return "ShowGuides"
	case PropertyStickToPage:
		return "StickToPage"
	case PropertySnapToPixels:
		return "SnapToPixels"
	case PropertyEnabled:
		return "Enabled"
	case PropertyFileTypes:
		return "FileTypes"
	case PropertyVisible:
		return "Visible"
	case PropertyColumn:
		return "Column"
	case PropertyColor:
		return "Color"
	case PropertyWidth:
		return "Width"
	case PropertyDashes:
		return "Dashes"
	default:
		return ""
	}
}

// Event is one change notification. Association is set for every
// association and guide event; Guide only for guide events.
type Event struct {
	Kind        EventKind
	Property    Property
	Association *AssociationModel
	Guide       *GuideModel
}

// Listener receives events synchronously on the caller's goroutine.
type Listener func(Event)

// Subscription identifies a registered listener.
type Subscription uint64

type listenerEntry struct {
	sub Subscription
	fn  Listener
}
