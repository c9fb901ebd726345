package colguide

import (
	"errors"
	"io/fs"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	factoryFileTypes   = "*.*"
	factoryGuideColumn = 80
	factoryGuideWidth  = 1
)

var (
	factoryGuideColor  = Gray
	factoryGuideWidths = []int{1, 2, 3}
	factoryGuideDashes = [][]float64{{}, {1, 1}, {1, 2}, {1, 4}, {2, 1}, {2, 2}, {2, 4}, {4, 2}, {4, 4}, {4, 8}}
)

// DefaultSettings holds factory defaults, editing limits and column
// measurement probes. A settings file may override any field.
type DefaultSettings struct {
	InitialOptions *Options `yaml:"initialOptions"`

	MaxAssociationCount           int    `yaml:"maxAssociationCount"`
	NewAssociationEnabled         bool   `yaml:"newAssociationEnabled"`
	MaxAssociationFileTypesLength int    `yaml:"maxAssociationFileTypesLength"`
	NewAssociationFileTypes       string `yaml:"newAssociationFileTypes"`
	NewAssociationAddGuide        bool   `yaml:"newAssociationAddGuide"`
	MaxAssociationGuideCount      int    `yaml:"maxAssociationGuideCount"`

	NewGuideVisible bool  `yaml:"newGuideVisible"`
	MaxGuideColumn  int   `yaml:"maxGuideColumn"`
	NewGuideColumn  int   `yaml:"newGuideColumn"`
	NewGuideColor   Color `yaml:"newGuideColor"`
	NewGuideWidth   int   `yaml:"newGuideWidth"`

	PredefinedGuideWidths             []int       `yaml:"predefinedGuideWidths"`
	DefaultPredefinedGuideWidthIndex  int         `yaml:"defaultPredefinedGuideWidthIndex"`
	PredefinedGuideDashes             [][]float64 `yaml:"predefinedGuideDashes"`
	DefaultPredefinedGuideDashesIndex int         `yaml:"defaultPredefinedGuideDashesIndex"`

	MonospaceTestCharacter1                   string `yaml:"monospaceTestCharacter1"`
	MonospaceTestCharacter2                   string `yaml:"monospaceTestCharacter2"`
	ProportionalColumnWidthCharacter          string `yaml:"proportionalColumnWidthCharacter"`
	ProportionalColumnMeasurementStringLength int    `yaml:"proportionalColumnMeasurementStringLength"`
}

// FactoryDefaults returns the built-in settings.
func FactoryDefaults() *DefaultSettings {
	return &DefaultSettings{
		InitialOptions: factoryInitialOptions(),

		MaxAssociationCount:           64,
		NewAssociationEnabled:         true,
		MaxAssociationFileTypesLength: 64,
		NewAssociationFileTypes:       factoryFileTypes,
		NewAssociationAddGuide:        true,
		MaxAssociationGuideCount:      64,

		NewGuideVisible: true,
		MaxGuideColumn:  999,
		NewGuideColumn:  factoryGuideColumn,
		NewGuideColor:   factoryGuideColor,
		NewGuideWidth:   factoryGuideWidth,

		PredefinedGuideWidths: slices.Clone(factoryGuideWidths),
		PredefinedGuideDashes: cloneDashes(factoryGuideDashes),

		MonospaceTestCharacter1:                   "M",
		MonospaceTestCharacter2:                   ".",
		ProportionalColumnWidthCharacter:          "x",
		ProportionalColumnMeasurementStringLength: 128,
	}
}

func factoryInitialOptions() *Options {
	a := &FileTypesAssociation{
		Enabled: true,
		Guides: []*Guide{{
			Visible: true,
			Column:  factoryGuideColumn,
			Color:   factoryGuideColor,
			Width:   factoryGuideWidth,
			Dashes:  []float64{},
		}},
	}
	a.SetFileTypes(factoryFileTypes)

	return &Options{
		ShowGuides:   true,
		StickToPage:  true,
		SnapToPixels: true,
		Associations: []*FileTypesAssociation{a},
	}
}

func cloneDashes(dashes [][]float64) [][]float64 {
	out := make([][]float64, len(dashes))
	for i, d := range dashes {
		out[i] = slices.Clone(d)
		if out[i] == nil {
			out[i] = []float64{}
		}
	}
	return out
}

// Normalize clamps every field into its valid range and fills anything the
// settings file left empty.
func (s *DefaultSettings) Normalize() {
	if s.InitialOptions == nil {
		s.InitialOptions = factoryInitialOptions()
	}

	s.MaxAssociationCount = max(s.MaxAssociationCount, 0)
	s.MaxAssociationFileTypesLength = max(s.MaxAssociationFileTypesLength, 0)
	s.MaxAssociationGuideCount = max(s.MaxAssociationGuideCount, 0)
	s.MaxGuideColumn = max(s.MaxGuideColumn, 0)
	s.NewGuideColumn = max(s.NewGuideColumn, 0)
	s.NewGuideWidth = max(s.NewGuideWidth, 1)

	if len(s.PredefinedGuideWidths) == 0 {
		s.PredefinedGuideWidths = slices.Clone(factoryGuideWidths)
	}
	s.DefaultPredefinedGuideWidthIndex = min(max(s.DefaultPredefinedGuideWidthIndex, 0), len(s.PredefinedGuideWidths)-1)

	if len(s.PredefinedGuideDashes) == 0 {
		s.PredefinedGuideDashes = cloneDashes(factoryGuideDashes)
	}
	s.DefaultPredefinedGuideDashesIndex = min(max(s.DefaultPredefinedGuideDashesIndex, 0), len(s.PredefinedGuideDashes)-1)

	if s.MonospaceTestCharacter1 == "" {
		s.MonospaceTestCharacter1 = "M"
	}
	if s.MonospaceTestCharacter2 == "" {
		s.MonospaceTestCharacter2 = "."
	}
	if s.ProportionalColumnWidthCharacter == "" {
		s.ProportionalColumnWidthCharacter = "x"
	}
	if s.ProportionalColumnMeasurementStringLength <= 0 {
		s.ProportionalColumnMeasurementStringLength = 128
	}
}

// DefaultDashes returns the dash preset used when a guide has none.
func (s *DefaultSettings) DefaultDashes() []float64 {
	return slices.Clone(s.PredefinedGuideDashes[s.DefaultPredefinedGuideDashesIndex])
}

// NewGuide returns a guide built from the new-guide defaults.
func (s *DefaultSettings) NewGuide() *Guide {
	return &Guide{
		Visible: s.NewGuideVisible,
		Column:  s.NewGuideColumn,
		Color:   s.NewGuideColor,
		Width:   s.NewGuideWidth,
		Dashes:  s.DefaultDashes(),
	}
}

// NewAssociation returns an empty association built from the
// new-association defaults.
func (s *DefaultSettings) NewAssociation() *FileTypesAssociation {
	a := &FileTypesAssociation{Enabled: s.NewAssociationEnabled}
	a.SetFileTypes(s.NewAssociationFileTypes)
	return a
}

// LoadDefaultSettings reads a YAML settings file through fsys. A missing
// file yields factory defaults; an unreadable or malformed file is logged
// and also yields factory defaults.
func LoadDefaultSettings(fsys FileSystemInterface, path string, logger *slog.Logger) *DefaultSettings {
	settings := FactoryDefaults()
	if path == "" {
		return settings
	}
	if fsys == nil {
		fsys = &localFileSystem{}
	}
	if logger == nil {
		logger = discardLogger()
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read default settings", "path", path, "error", err)
		}
		return settings
	}

	loaded := FactoryDefaults()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		logger.Warn("failed to load default settings", "path", path, "error", err)
		return settings
	}

	loaded.Normalize()
	return loaded
}
