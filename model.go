package colguide

import (
	"slices"
)

// AssociationID is the stable handle of an AssociationModel.
type AssociationID uint64

// GuideID is the stable handle of a GuideModel.
type GuideID uint64

// GuideModel wraps a Guide with its position and change notification.
type GuideModel struct {
	id    GuideID
	index int
	guide *Guide
	owner *AssociationModel // nil once removed
}

// ID returns the guide's handle. Handles are never reused.
func (g *GuideModel) ID() GuideID { return g.id }

// Index returns the guide's position within its association.
func (g *GuideModel) Index() int { return g.index }

// Guide returns the underlying configuration object.
func (g *GuideModel) Guide() *Guide { return g.guide }

func (g *GuideModel) Visible() bool { return g.guide.Visible }
func (g *GuideModel) Column() int { return g.guide.Column }
func (g *GuideModel) Color() Color { return g.guide.Color }
func (g *GuideModel) Width() int { return g.guide.Width }
func (g *GuideModel) Dashes() []float64 { return slices.Clone(g.guide.Dashes) }

// SetVisible shows or hides the guide.
func (g *GuideModel) SetVisible(visible bool) {
	if g.guide.Visible == visible {
		return
	}
	g.guide.Visible = visible
	g.notify(PropertyVisible)
}

// SetColumn moves the guide to a column, clamped to [0, MaxGuideColumn].
func (g *GuideModel) SetColumn(column int) {
	column = max(column, 0)
	if m := g.model(); m != nil {
		column = min(column, m.settings.MaxGuideColumn)
	}
	if g.guide.Column == column {
		return
	}
	g.guide.Column = column
	g.notify(PropertyColumn)
}

// SetColor changes the stroke color.
func (g *GuideModel) SetColor(color Color) {
	if g.guide.Color == color {
		return
	}
	g.guide.Color = color
	g.notify(PropertyColor)
}

// SetWidth changes the stroke width, clamped to at least 1.
func (g *GuideModel) SetWidth(width int) {
	width = max(width, 1)
	if g.guide.Width == width {
		return
	}
	g.guide.Width = width
	g.notify(PropertyWidth)
}

// SetDashes changes the dash pattern. nil selects the default preset; an
// empty slice draws a solid line.
func (g *GuideModel) SetDashes(dashes []float64) {
	if dashes == nil {
		if m := g.model(); m != nil {
			dashes = m.settings.DefaultDashes()
		} else {
			dashes = []float64{}
		}
	}
	if slices.Equal(g.guide.Dashes, dashes) {
		return
	}
	g.guide.Dashes = slices.Clone(dashes)
	g.notify(PropertyDashes)
}

func (g *GuideModel) model() *OptionsModel {
	if g.owner == nil {
		return nil
	}
	return g.owner.model
}

func (g *GuideModel) notify(p Property) {
	if m := g.model(); m != nil {
		m.emit(Event{Kind: EventGuidePropertyChanged, Property: p, Association: g.owner, Guide: g})
	}
}

// AssociationModel wraps a FileTypesAssociation with its position, its
// wrapped guides and change notification.
type AssociationModel struct {
	id          AssociationID
	index       int
	association *FileTypesAssociation
	guides      []*GuideModel
	model       *OptionsModel // nil once removed
}

// ID returns the association's handle. Handles are never reused.
func (a *AssociationModel) ID() AssociationID { return a.id }

// Index returns the association's position within the model.
func (a *AssociationModel) Index() int { return a.index }

// Association returns the underlying configuration object.
func (a *AssociationModel) Association() *FileTypesAssociation { return a.association }

func (a *AssociationModel) Enabled() bool { return a.association.Enabled }
func (a *AssociationModel) FileTypes() string { return a.association.FileTypes() }

// Matches reports whether fileName matches the association's patterns.
func (a *AssociationModel) Matches(fileName string) bool {
	return a.association.Matches(fileName)
}

// Guides returns the wrapped guides in order.
func (a *AssociationModel) Guides() []*GuideModel { return slices.Clone(a.guides) }

// GuideCount returns the number of guides.
func (a *AssociationModel) GuideCount() int { return len(a.guides) }

// Guide returns the guide at position i.
func (a *AssociationModel) Guide(i int) *GuideModel { return a.guides[i] }

// HasVisibleGuide reports whether any guide is visible.
func (a *AssociationModel) HasVisibleGuide() bool {
	return slices.ContainsFunc(a.guides, func(g *GuideModel) bool { return g.guide.Visible })
}

// SetEnabled turns the association on or off.
func (a *AssociationModel) SetEnabled(enabled bool) {
	if a.association.Enabled == enabled {
		return
	}
	a.association.Enabled = enabled
	a.notify(PropertyEnabled)
}

// SetFileTypes replaces the pattern string, truncated to
// MaxAssociationFileTypesLength.
func (a *AssociationModel) SetFileTypes(fileTypes string) {
	if a.model != nil {
		fileTypes = truncateRunes(fileTypes, a.model.settings.MaxAssociationFileTypesLength)
	}
	if a.association.FileTypes() == fileTypes {
		return
	}
	a.association.SetFileTypes(fileTypes)
	a.notify(PropertyFileTypes)
}

func (a *AssociationModel) notify(p Property) {
	if a.model != nil {
		a.model.emit(Event{Kind: EventAssociationPropertyChanged, Property: p, Association: a})
	}
}

func (a *AssociationModel) indexOf(g *GuideModel) int {
	if g == nil || g.owner != a {
		return -1
	}
	return slices.Index(a.guides, g)
}

func (a *AssociationModel) renumber(from, to int) {
	for i := max(from, 0); i < min(to, len(a.guides)); i++ {
		a.guides[i].index = i
	}
}

// OptionsModel is the live configuration tree. Every structural edit
// renumbers the affected wrappers and then raises exactly one event.
// It is not safe for concurrent use.
type OptionsModel struct {
	options      *Options
	settings     *DefaultSettings
	associations []*AssociationModel

	nextAssociationID AssociationID
	nextGuideID       GuideID

	listeners []listenerEntry
	nextSub   Subscription
}

// NewOptionsModel wraps opts. A nil opts starts from the settings' initial
// options; nil settings uses factory defaults.
func NewOptionsModel(opts *Options, settings *DefaultSettings) *OptionsModel {
	if settings == nil {
		settings = FactoryDefaults()
	}
	m := &OptionsModel{
		settings:          settings,
		nextAssociationID: 1,
		nextGuideID:       1,
	}
	m.load(opts)
	return m
}

// Options returns the underlying configuration tree.
func (m *OptionsModel) Options() *Options { return m.options }

// Settings returns the defaults and limits in force.
func (m *OptionsModel) Settings() *DefaultSettings { return m.settings }

// SetOptions replaces the whole tree and raises a single reset event.
func (m *OptionsModel) SetOptions(opts *Options) {
	m.load(opts)
	m.emit(Event{Kind: EventOptionsReset})
}

func (m *OptionsModel) load(opts *Options) {
	if opts == nil {
		opts = m.settings.InitialOptions.Clone()
	}
	opts.Associations = slices.DeleteFunc(opts.Associations, func(a *FileTypesAssociation) bool { return a == nil })

	for _, a := range m.associations {
		a.detach()
	}

	m.options = opts
	m.associations = make([]*AssociationModel, 0, len(opts.Associations))
	for i, a := range opts.Associations {
		m.associations = append(m.associations, m.wrapAssociation(i, a))
	}
}

func (m *OptionsModel) wrapAssociation(index int, a *FileTypesAssociation) *AssociationModel {
	a.Guides = slices.DeleteFunc(a.Guides, func(g *Guide) bool { return g == nil })

	am := &AssociationModel{
		id:          m.nextAssociationID,
		index:       index,
		association: a,
		guides:      make([]*GuideModel, 0, len(a.Guides)),
		model:       m,
	}
	m.nextAssociationID++

	for i, g := range a.Guides {
		am.guides = append(am.guides, m.wrapGuide(am, i, g))
	}
	return am
}

func (m *OptionsModel) wrapGuide(owner *AssociationModel, index int, g *Guide) *GuideModel {
	gm := &GuideModel{
		id:    m.nextGuideID,
		index: index,
		guide: g,
		owner: owner,
	}
	m.nextGuideID++
	return gm
}

func (a *AssociationModel) detach() {
	for _, g := range a.guides {
		g.owner = nil
	}
	a.model = nil
}

// ShowGuides reports whether guides are globally enabled.
func (m *OptionsModel) ShowGuides() bool { return m.options.ShowGuides }

// StickToPage reports whether dash patterns scroll with the text.
func (m *OptionsModel) StickToPage() bool { return m.options.StickToPage }

// SnapToPixels reports whether guides snap to device pixels.
func (m *OptionsModel) SnapToPixels() bool { return m.options.SnapToPixels }

// SetShowGuides toggles guides globally.
func (m *OptionsModel) SetShowGuides(show bool) {
	if m.options.ShowGuides == show {
		return
	}
	m.options.ShowGuides = show
	m.emit(Event{Kind: EventOptionsPropertyChanged, Property: PropertyShowGuides})
}

// SetStickToPage toggles dash scrolling.
func (m *OptionsModel) SetStickToPage(stick bool) {
	if m.options.StickToPage == stick {
		return
	}
	m.options.StickToPage = stick
	m.emit(Event{Kind: EventOptionsPropertyChanged, Property: PropertyStickToPage})
}

// SetSnapToPixels toggles pixel snapping.
func (m *OptionsModel) SetSnapToPixels(snap bool) {
	if m.options.SnapToPixels == snap {
		return
	}
	m.options.SnapToPixels = snap
	m.emit(Event{Kind: EventOptionsPropertyChanged, Property: PropertySnapToPixels})
}

// SetCustomColors stores the color picker's custom palette. No event is raised.
func (m *OptionsModel) SetCustomColors(colors []int32) {
	m.options.CustomColors = slices.Clone(colors)
}

// Associations returns the wrapped associations in order.
func (m *OptionsModel) Associations() []*AssociationModel { return slices.Clone(m.associations) }

// AssociationCount returns the number of associations.
func (m *OptionsModel) AssociationCount() int { return len(m.associations) }

// Association returns the association at position i.
func (m *OptionsModel) Association(i int) *AssociationModel { return m.associations[i] }

// FindAssociation returns the association with the given handle, or nil.
func (m *OptionsModel) FindAssociation(id AssociationID) *AssociationModel {
	for _, a := range m.associations {
		if a.id == id {
			return a
		}
	}
	return nil
}

func (m *OptionsModel) indexOf(a *AssociationModel) int {
	if a == nil || a.model != m {
		return -1
	}
	return slices.Index(m.associations, a)
}

func (m *OptionsModel) renumber(from, to int) {
	for i := max(from, 0); i < min(to, len(m.associations)); i++ {
		m.associations[i].index = i
	}
}

// AddAssociation inserts a new default association at position at (use
// AssociationCount to append). When NewAssociationAddGuide is set the new
// association also receives one default guide, announced by a second event.
func (m *OptionsModel) AddAssociation(at int) (*AssociationModel, error) {
	a, err := m.InsertAssociation(at, m.settings.NewAssociation())
	if err != nil {
		return nil, err
	}
	if m.settings.NewAssociationAddGuide {
		if _, err := m.AddGuide(a, 0); err != nil {
			return a, err
		}
	}
	return a, nil
}

// InsertAssociation inserts an existing configuration object, with any
// guides it already carries, at position at.
func (m *OptionsModel) InsertAssociation(at int, association *FileTypesAssociation) (*AssociationModel, error) {
	if len(m.associations) >= m.settings.MaxAssociationCount {
		return nil, ErrTooManyAssociations
	}
	if at < 0 || at > len(m.associations) {
		return nil, ErrIndexOutOfRange
	}

	a := m.wrapAssociation(at, association)

	m.options.Associations = slices.Insert(m.options.Associations, at, association)
	m.associations = slices.Insert(m.associations, at, a)
	m.renumber(at+1, len(m.associations))

	m.emit(Event{Kind: EventAssociationAdded, Association: a})
	return a, nil
}

// RemoveAssociation removes a from the model.
func (m *OptionsModel) RemoveAssociation(a *AssociationModel) error {
	i := m.indexOf(a)
	if i < 0 {
		return ErrAssociationNotFound
	}

	m.options.Associations = slices.Delete(m.options.Associations, i, i+1)
	m.associations = slices.Delete(m.associations, i, i+1)
	m.renumber(i, len(m.associations))

	// The event still needs a live owner link so listeners can inspect
	// the removed association; detach afterwards.
	m.emit(Event{Kind: EventAssociationRemoved, Association: a})
	a.detach()
	return nil
}

// MoveAssociation moves a to position to.
func (m *OptionsModel) MoveAssociation(a *AssociationModel, to int) error {
	from := m.indexOf(a)
	if from < 0 {
		return ErrAssociationNotFound
	}
	if to < 0 || to >= len(m.associations) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}

	m.options.Associations = slices.Delete(m.options.Associations, from, from+1)
	m.options.Associations = slices.Insert(m.options.Associations, to, a.association)
	m.associations = slices.Delete(m.associations, from, from+1)
	m.associations = slices.Insert(m.associations, to, a)
	m.renumber(min(from, to), max(from, to)+1)

	m.emit(Event{Kind: EventAssociationMoved, Association: a})
	return nil
}

// MoveAssociationUp swaps a with its predecessor.
func (m *OptionsModel) MoveAssociationUp(a *AssociationModel) error {
	return m.MoveAssociation(a, a.index-1)
}

// MoveAssociationDown swaps a with its successor.
func (m *OptionsModel) MoveAssociationDown(a *AssociationModel) error {
	return m.MoveAssociation(a, a.index+1)
}

// AddGuide inserts a new default guide into a at position at.
func (m *OptionsModel) AddGuide(a *AssociationModel, at int) (*GuideModel, error) {
	return m.InsertGuide(a, at, m.settings.NewGuide())
}

// InsertGuide inserts an existing guide into a at position at.
func (m *OptionsModel) InsertGuide(a *AssociationModel, at int, guide *Guide) (*GuideModel, error) {
	if m.indexOf(a) < 0 {
		return nil, ErrAssociationNotFound
	}
	if len(a.guides) >= m.settings.MaxAssociationGuideCount {
		return nil, ErrTooManyGuides
	}
	if at < 0 || at > len(a.guides) {
		return nil, ErrIndexOutOfRange
	}
	if guide.Dashes == nil {
		guide.Dashes = m.settings.DefaultDashes()
	}

	g := m.wrapGuide(a, at, guide)

	a.association.Guides = slices.Insert(a.association.Guides, at, guide)
	a.guides = slices.Insert(a.guides, at, g)
	a.renumber(at+1, len(a.guides))

	m.emit(Event{Kind: EventGuideAdded, Association: a, Guide: g})
	return g, nil
}

// RemoveGuide removes g from a.
func (m *OptionsModel) RemoveGuide(a *AssociationModel, g *GuideModel) error {
	if m.indexOf(a) < 0 {
		return ErrAssociationNotFound
	}
	i := a.indexOf(g)
	if i < 0 {
		return ErrGuideNotFound
	}

	a.association.Guides = slices.Delete(a.association.Guides, i, i+1)
	a.guides = slices.Delete(a.guides, i, i+1)
	a.renumber(i, len(a.guides))

	m.emit(Event{Kind: EventGuideRemoved, Association: a, Guide: g})
	g.owner = nil
	return nil
}

// MoveGuide moves g to position to within a.
func (m *OptionsModel) MoveGuide(a *AssociationModel, g *GuideModel, to int) error {
	if m.indexOf(a) < 0 {
		return ErrAssociationNotFound
	}
	from := a.indexOf(g)
	if from < 0 {
		return ErrGuideNotFound
	}
	if to < 0 || to >= len(a.guides) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}

	a.association.Guides = slices.Delete(a.association.Guides, from, from+1)
	a.association.Guides = slices.Insert(a.association.Guides, to, g.guide)
	a.guides = slices.Delete(a.guides, from, from+1)
	a.guides = slices.Insert(a.guides, to, g)
	a.renumber(min(from, to), max(from, to)+1)

	m.emit(Event{Kind: EventGuideMoved, Association: a, Guide: g})
	return nil
}

// MoveGuideUp swaps g with its predecessor in its association.
func (m *OptionsModel) MoveGuideUp(g *GuideModel) error {
	if g.owner == nil {
		return ErrGuideNotFound
	}
	return m.MoveGuide(g.owner, g, g.index-1)
}

// MoveGuideDown swaps g with its successor in its association.
func (m *OptionsModel) MoveGuideDown(g *GuideModel) error {
	if g.owner == nil {
		return ErrGuideNotFound
	}
	return m.MoveGuide(g.owner, g, g.index+1)
}

// Subscribe registers fn for every event. Listeners run in subscription
// order.
func (m *OptionsModel) Subscribe(fn Listener) Subscription {
	m.nextSub++
	m.listeners = append(m.listeners, listenerEntry{sub: m.nextSub, fn: fn})
	return m.nextSub
}

// Unsubscribe removes a listener. Unknown subscriptions are ignored.
func (m *OptionsModel) Unsubscribe(sub Subscription) {
	m.listeners = slices.DeleteFunc(m.listeners, func(e listenerEntry) bool { return e.sub == sub })
}

// ListenerCount returns the number of registered listeners.
func (m *OptionsModel) ListenerCount() int { return len(m.listeners) }

func (m *OptionsModel) emit(e Event) {
	// A listener may unsubscribe while being notified.
	for _, l := range slices.Clone(m.listeners) {
		l.fn(e)
	}
}
