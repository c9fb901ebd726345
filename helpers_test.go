package colguide

import (
	"io/fs"
	"maps"
	"path"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memFS is an in-memory FileSystemInterface.
type memFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	dirs   []string
	writes int
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte)}
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (m *memFS) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = slices.Clone(data)
	m.writes++
	return nil
}

func (m *memFS) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = append(m.dirs, path.Clean(dir))
	return nil
}

func (m *memFS) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.files))
}

// newTestLibrary returns a library over opts with no persistence.
func newTestLibrary(t *testing.T, opts *Options) *Library {
	t.Helper()
	lib, err := Init(LibraryOptions{Options: opts, FileSystem: newMemFS()})
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

// attachView attaches a fresh memory view for path.
func attachView(t *testing.T, lib *Library, path string) (*Adornment, *MemoryView) {
	t.Helper()
	v := NewMemoryView(path, 600)
	a, err := lib.Attach(v, v)
	require.NoError(t, err)
	return a, v
}

func testGuide(column int) *Guide {
	return &Guide{Visible: true, Column: column, Color: Gray, Width: 1, Dashes: []float64{}}
}

func testAssociation(fileTypes string, guides ...*Guide) *FileTypesAssociation {
	a := &FileTypesAssociation{Enabled: true, Guides: guides}
	a.SetFileTypes(fileTypes)
	return a
}

func testOptions(associations ...*FileTypesAssociation) *Options {
	return &Options{
		ShowGuides:   true,
		StickToPage:  true,
		SnapToPixels: true,
		Associations: associations,
	}
}

func lineTags(lines []*GuideLine) []GuideID {
	tags := make([]GuideID, len(lines))
	for i, l := range lines {
		tags[i] = l.Tag()
	}
	return tags
}

func snapshotTags(groups []GroupSnapshot) []GuideID {
	tags := []GuideID{}
	for _, g := range groups {
		for _, l := range g.Lines {
			tags = append(tags, l.Guide)
		}
	}
	return tags
}

// requireConsistent checks every projection invariant for a and its view:
// paint order, existence, no leak and equality with a fresh rebuild.
func requireConsistent(t *testing.T, lib *Library, a *Adornment, v *MemoryView) {
	t.Helper()

	snap := a.Snapshot()
	tags := snapshotTags(snap)

	// Registered lines are exactly the projection, in projection order.
	require.Equal(t, tags, lineTags(v.Lines()), "surface order differs from projection")

	// Group order follows association index, line order follows guide index.
	for i := 1; i < len(snap); i++ {
		require.Less(t, snap[i-1].AssociationIndex, snap[i].AssociationIndex, "group order")
	}
	for _, g := range snap {
		require.NotEmpty(t, g.Lines, "empty group kept")
		for i := 1; i < len(g.Lines); i++ {
			require.Less(t, g.Lines[i-1].GuideIndex, g.Lines[i].GuideIndex, "line order")
		}
	}

	// A group exists iff its association is eligible, a line iff its guide is.
	state := a.state()
	groups := make(map[AssociationID]bool)
	lines := make(map[GuideID]bool)
	for _, g := range snap {
		groups[g.Association] = true
		for _, l := range g.Lines {
			lines[l.Guide] = true
		}
	}
	eligibleGuides := 0
	for _, assoc := range lib.Model().Associations() {
		require.Equal(t, AssociationEligible(state, assoc, 0), groups[assoc.ID()],
			"association %d (index %d) eligibility", assoc.ID(), assoc.Index())
		for _, g := range assoc.Guides() {
			eligible := GuideEligible(state, assoc, g, 0)
			require.Equal(t, eligible, lines[g.ID()], "guide %d eligibility", g.ID())
			if eligible {
				eligibleGuides++
			}
		}
	}
	require.Equal(t, eligibleGuides, len(v.Lines()), "registered line count")

	// A fresh adornment over the same state draws the same lines.
	fresh := NewMemoryView(v.FilePath(), v.ViewportHeight())
	fresh.top = v.top
	fresh.lineLeft = v.lineLeft
	fresh.typeface = v.typeface
	rebuilt, err := lib.Attach(fresh, fresh)
	require.NoError(t, err)
	require.Equal(t, rebuilt.Snapshot(), snap, "incremental projection differs from rebuild")
	rebuilt.Close()
}
