package colguide

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryDefaults(t *testing.T) {
	s := FactoryDefaults()

	assert.Equal(t, 64, s.MaxAssociationCount)
	assert.Equal(t, 999, s.MaxGuideColumn)
	assert.Equal(t, []int{1, 2, 3}, s.PredefinedGuideWidths)
	assert.Len(t, s.PredefinedGuideDashes, 10)
	assert.Equal(t, []float64{}, s.DefaultDashes())

	g := s.NewGuide()
	assert.Equal(t, &Guide{Visible: true, Column: 80, Color: Gray, Width: 1, Dashes: []float64{}}, g)

	a := s.NewAssociation()
	assert.True(t, a.Enabled)
	assert.Equal(t, "*.*", a.FileTypes())
	assert.Empty(t, a.Guides)
}

func TestNormalizeClamps(t *testing.T) {
	s := &DefaultSettings{
		MaxAssociationCount:               -1,
		NewGuideWidth:                     0,
		DefaultPredefinedGuideWidthIndex:  7,
		DefaultPredefinedGuideDashesIndex: -3,
	}
	s.Normalize()

	assert.NotNil(t, s.InitialOptions)
	assert.Zero(t, s.MaxAssociationCount)
	assert.Equal(t, 1, s.NewGuideWidth)
	assert.Equal(t, 2, s.DefaultPredefinedGuideWidthIndex)
	assert.Zero(t, s.DefaultPredefinedGuideDashesIndex)
	assert.Equal(t, "M", s.MonospaceTestCharacter1)
	assert.Equal(t, 128, s.ProportionalColumnMeasurementStringLength)
}

func TestLoadDefaultSettingsYAML(t *testing.T) {
	fsys := newMemFS()
	fsys.files["defaults.yaml"] = []byte(`
maxGuideColumn: 200
newGuideColumn: 120
newGuideColor: "#FF0000FF"
defaultPredefinedGuideDashesIndex: 1
initialOptions:
  showGuides: true
  stickToPage: false
  associations:
    - enabled: true
      fileTypes: "*.go;*.mod"
      guides:
        - visible: true
          column: 100
          color: "#FF808080"
          width: 2
          dashes: [2, 2]
`)

	s := LoadDefaultSettings(fsys, "defaults.yaml", nil)

	assert.Equal(t, 200, s.MaxGuideColumn)
	assert.Equal(t, 120, s.NewGuideColumn)
	assert.Equal(t, Color{A: 0xff, B: 0xff}, s.NewGuideColor)
	assert.Equal(t, []float64{1, 1}, s.DefaultDashes())
	assert.Equal(t, 64, s.MaxAssociationCount, "unset fields keep factory values")

	opts := s.InitialOptions
	require.Len(t, opts.Associations, 1)
	assert.False(t, opts.StickToPage)
	assert.Equal(t, "*.go;*.mod", opts.Associations[0].FileTypes())
	assert.True(t, opts.Associations[0].Matches("go.mod"))
	assert.Equal(t, &Guide{Visible: true, Column: 100, Color: Gray, Width: 2, Dashes: []float64{2, 2}}, opts.Associations[0].Guides[0])
}

type failingFS struct{ memFS }

func (f *failingFS) ReadFile(string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestLoadDefaultSettingsFallsBack(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s := LoadDefaultSettings(newMemFS(), "missing.yaml", logger)
	assert.Equal(t, FactoryDefaults(), s)
	assert.Empty(t, logs.String())

	fsys := newMemFS()
	fsys.files["bad.yaml"] = []byte("maxGuideColumn: [")
	s = LoadDefaultSettings(fsys, "bad.yaml", logger)
	assert.Equal(t, FactoryDefaults(), s)
	assert.Contains(t, logs.String(), "failed to load default settings")

	logs.Reset()
	s = LoadDefaultSettings(&failingFS{}, "any.yaml", logger)
	assert.Equal(t, FactoryDefaults(), s)
	assert.Contains(t, logs.String(), "disk on fire")
}
