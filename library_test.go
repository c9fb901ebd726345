package colguide

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	lib, err := Init(LibraryOptions{})
	require.NoError(t, err)
	require.NotNil(t, lib)
	defer lib.Close()

	assert.Equal(t, FactoryDefaults().MaxGuideColumn, lib.Settings().MaxGuideColumn)
	assert.Equal(t, 1, lib.Model().AssociationCount())
	assert.False(t, lib.Store().Persistent())
}

func TestInitLoadsPersistedOptions(t *testing.T) {
	fsys := newMemFS()
	data, err := EncodeOptions(testOptions(
		testAssociation("*.go", testGuide(100)),
		testAssociation("*.md", testGuide(72)),
	))
	require.NoError(t, err)
	fsys.files["colguide.json"] = data
	fsys.files["defaults.yaml"] = []byte("maxGuideColumn: 120\n")

	lib, err := Init(LibraryOptions{
		FileSystem:   fsys,
		OptionsPath:  "colguide.json",
		SettingsPath: "defaults.yaml",
	})
	require.NoError(t, err)
	defer lib.Close()

	assert.Equal(t, 120, lib.Settings().MaxGuideColumn)
	require.Equal(t, 2, lib.Model().AssociationCount())
	assert.Equal(t, 100, lib.Model().Association(0).Guide(0).Column())
}

func TestInitToleratesMalformedOptions(t *testing.T) {
	fsys := newMemFS()
	fsys.files["colguide.json"] = []byte("nope")
	var logs bytes.Buffer

	lib, err := Init(LibraryOptions{
		FileSystem:  fsys,
		OptionsPath: "colguide.json",
		Logger:      slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)
	defer lib.Close()

	assert.Equal(t, 1, lib.Model().AssociationCount())
	assert.Contains(t, logs.String(), "ignoring malformed options file")
}

func TestAttachValidation(t *testing.T) {
	lib := newTestLibrary(t, nil)
	v := NewMemoryView("main.go", 100)

	_, err := lib.Attach(nil, v)
	assert.ErrorIs(t, err, ErrNilView)
	_, err = lib.Attach(v, nil)
	assert.ErrorIs(t, err, ErrNilDocument)

	require.NoError(t, lib.Close())
	_, err = lib.Attach(v, v)
	assert.ErrorIs(t, err, ErrLibraryClosed)
}

func TestLibraryCloseClosesAdornments(t *testing.T) {
	lib := newTestLibrary(t, nil)
	a1, v1 := attachView(t, lib, "main.go")
	a2, v2 := attachView(t, lib, "README.md")
	assert.NotEqual(t, a1.ID(), a2.ID())
	assert.Len(t, lib.Adornments(), 2)

	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())

	assert.True(t, a1.Closed())
	assert.True(t, a2.Closed())
	assert.Empty(t, v1.Lines())
	assert.Empty(t, v2.Lines())
	assert.Zero(t, lib.Model().ListenerCount())
	assert.Empty(t, lib.Adornments())
}

func TestToggleShowGuidesPersists(t *testing.T) {
	fsys := newMemFS()
	lib, err := Init(LibraryOptions{FileSystem: fsys, OptionsPath: "colguide.json"})
	require.NoError(t, err)
	defer lib.Close()
	_, v := attachView(t, lib, "main.go")
	require.Len(t, v.Lines(), 1)

	require.NoError(t, lib.ToggleShowGuides())
	assert.Empty(t, v.Lines())

	saved, err := DecodeOptions(fsys.files["colguide.json"])
	require.NoError(t, err)
	assert.False(t, saved.ShowGuides)
}

func TestWatchRequiresPath(t *testing.T) {
	lib := newTestLibrary(t, nil)
	assert.ErrorIs(t, lib.Watch(t.Context()), ErrNoSettingsPath)
}

func TestWatchRequiresDispatcher(t *testing.T) {
	lib, err := Init(LibraryOptions{FileSystem: newMemFS(), OptionsPath: "colguide.json"})
	require.NoError(t, err)
	defer lib.Close()

	assert.ErrorIs(t, lib.Watch(t.Context()), ErrNoDispatcher)
}
