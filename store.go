package colguide

import "sort"

// renderedGuide pairs a registered line with the guide it draws.
type renderedGuide struct {
	guide *GuideModel
	line  *GuideLine
}

// guideGroup holds the lines of one eligible association in guide order.
type guideGroup struct {
	association *AssociationModel
	rendered    []renderedGuide
}

func (g *guideGroup) findLine(id GuideID) int {
	for i, r := range g.rendered {
		if r.guide.ID() == id {
			return i
		}
	}
	return -1
}

// lineLowerBound returns the first position whose guide index is >= index,
// or len(rendered) when there is none.
func (g *guideGroup) lineLowerBound(index int) int {
	return sort.Search(len(g.rendered), func(i int) bool {
		return g.rendered[i].guide.Index() >= index
	})
}

// projection is the ordered set of groups currently on the surface. Group
// order follows association index; line order within a group follows
// guide index. Concatenating every group's lines gives the paint order.
type projection struct {
	groups []*guideGroup
}

func (p *projection) findGroup(id AssociationID) int {
	for i, g := range p.groups {
		if g.association.ID() == id {
			return i
		}
	}
	return -1
}

// groupLowerBound returns the first position whose association index is
// >= index, or len(groups) when there is none.
func (p *projection) groupLowerBound(index int) int {
	return sort.Search(len(p.groups), func(i int) bool {
		return p.groups[i].association.Index() >= index
	})
}

// each visits every line from (fromGroup, fromLine) to the end in paint
// order.
func (p *projection) each(fromGroup, fromLine int, fn func(r renderedGuide)) {
	for gi := fromGroup; gi < len(p.groups); gi++ {
		start := 0
		if gi == fromGroup {
			start = fromLine
		}
		for _, r := range p.groups[gi].rendered[start:] {
			fn(r)
		}
	}
}

func (p *projection) lineCount() int {
	n := 0
	for _, g := range p.groups {
		n += len(g.rendered)
	}
	return n
}

func (p *projection) clear() {
	p.groups = nil
}

// GroupSnapshot is a copy of one rendered group.
type GroupSnapshot struct {
	Association      AssociationID
	AssociationIndex int
	Lines            []LineSnapshot
}

// LineSnapshot is a copy of one rendered line.
type LineSnapshot struct {
	Guide      GuideID
	GuideIndex int
	Line       GuideLine
}

func (p *projection) snapshot() []GroupSnapshot {
	out := make([]GroupSnapshot, 0, len(p.groups))
	for _, g := range p.groups {
		gs := GroupSnapshot{
			Association:      g.association.ID(),
			AssociationIndex: g.association.Index(),
			Lines:            make([]LineSnapshot, 0, len(g.rendered)),
		}
		for _, r := range g.rendered {
			gs.Lines = append(gs.Lines, LineSnapshot{
				Guide:      r.guide.ID(),
				GuideIndex: r.guide.Index(),
				Line:       r.line.Clone(),
			})
		}
		out = append(out, gs)
	}
	return out
}
