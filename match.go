package colguide

// AssociationFlags relaxes AssociationEligible so a caller can ask whether
// an association would be eligible regardless of one property's value.
type AssociationFlags uint8

const (
	// SkipEnabled ignores the association's Enabled flag.
	SkipEnabled AssociationFlags = 1 << iota

	// SkipFileTypes ignores the association's file-type patterns.
	SkipFileTypes
)

// GuideFlags relaxes GuideEligible.
type GuideFlags uint8

const (
	// SkipVisible ignores the guide's Visible flag.
	SkipVisible GuideFlags = 1 << iota
)

// ViewerState is what eligibility depends on besides the configuration.
type ViewerState struct {
	ShowGuides bool
	FileName   string
}

// AssociationEligible reports whether a should have a rendered group.
func AssociationEligible(state ViewerState, a *AssociationModel, flags AssociationFlags) bool {
	return state.ShowGuides &&
		(flags&SkipEnabled != 0 || a.Enabled()) &&
		a.GuideCount() > 0 &&
		(flags&SkipFileTypes != 0 || a.Matches(state.FileName)) &&
		a.HasVisibleGuide()
}

// GuideEligible reports whether g, owned by a, should have a rendered line.
func GuideEligible(state ViewerState, a *AssociationModel, g *GuideModel, flags GuideFlags) bool {
	return state.ShowGuides &&
		a.Enabled() &&
		(flags&SkipVisible != 0 || g.Visible()) &&
		a.Matches(state.FileName)
}
