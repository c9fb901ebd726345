package colguide

import (
	"encoding/json"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Guide is one configured column guide.
type Guide struct {
	Visible bool      `json:"Visible" yaml:"visible"`
	Column  int       `json:"Column" yaml:"column"`
	Color   Color     `json:"Color" yaml:"color"`
	Width   int       `json:"Width" yaml:"width"`
	Dashes  []float64 `json:"Dashes" yaml:"dashes"`
}

// Clone returns a deep copy of the guide.
func (g *Guide) Clone() *Guide {
	return &Guide{
		Visible: g.Visible,
		Column:  g.Column,
		Color:   g.Color,
		Width:   g.Width,
		Dashes:  slices.Clone(g.Dashes),
	}
}

// FileTypesAssociation binds a set of file-type patterns to an ordered list
// of guides.
type FileTypesAssociation struct {
	Enabled bool     `json:"Enabled"`
	Guides  []*Guide `json:"Guides"`

	fileTypes string
	patterns  []string // compiled from fileTypes; nil = not built yet
}

// FileTypes returns the semicolon-delimited pattern string.
func (a *FileTypesAssociation) FileTypes() string {
	return a.fileTypes
}

// SetFileTypes replaces the pattern string and drops the cached matcher.
func (a *FileTypesAssociation) SetFileTypes(fileTypes string) {
	if a.fileTypes != fileTypes {
		a.fileTypes = fileTypes
		a.patterns = nil
	}
}

// Clone returns a deep copy of the association.
func (a *FileTypesAssociation) Clone() *FileTypesAssociation {
	clone := &FileTypesAssociation{
		Enabled:   a.Enabled,
		fileTypes: a.fileTypes,
		Guides:    make([]*Guide, 0, len(a.Guides)),
	}
	for _, g := range a.Guides {
		clone.Guides = append(clone.Guides, g.Clone())
	}
	return clone
}

// Matches reports whether fileName (a bare name, no directory) matches any
// of the association's patterns. Matching ignores case.
func (a *FileTypesAssociation) Matches(fileName string) bool {
	if a.patterns == nil {
		a.patterns = compilePatterns(a.fileTypes)
	}

	name := strings.ToLower(fileName)
	for _, pattern := range a.patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// compilePatterns splits a pattern string on ';', trims each entry and keeps
// the valid, non-blank ones. The result is never nil so it doubles as the
// "already built" marker.
func compilePatterns(fileTypes string) []string {
	patterns := []string{}
	for _, part := range strings.Split(fileTypes, ";") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || !doublestar.ValidatePattern(part) {
			continue
		}
		patterns = append(patterns, part)
	}
	return patterns
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// associationDoc is the persisted shape of a FileTypesAssociation.
type associationDoc struct {
	Enabled   bool     `json:"Enabled" yaml:"enabled"`
	FileTypes string   `json:"FileTypes" yaml:"fileTypes"`
	Guides    []*Guide `json:"Guides" yaml:"guides"`
}

func (a *FileTypesAssociation) doc() associationDoc {
	return associationDoc{Enabled: a.Enabled, FileTypes: a.fileTypes, Guides: a.Guides}
}

func (a *FileTypesAssociation) fromDoc(d associationDoc) {
	a.Enabled = d.Enabled
	a.Guides = slices.DeleteFunc(d.Guides, func(g *Guide) bool { return g == nil })
	a.SetFileTypes(d.FileTypes)
}

// MarshalJSON implements json.Marshaler.
func (a *FileTypesAssociation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *FileTypesAssociation) UnmarshalJSON(data []byte) error {
	var d associationDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	a.fromDoc(d)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a *FileTypesAssociation) MarshalYAML() (interface{}, error) {
	return a.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *FileTypesAssociation) UnmarshalYAML(value *yaml.Node) error {
	var d associationDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	a.fromDoc(d)
	return nil
}

// Options is the complete configuration tree.
type Options struct {
	ShowGuides   bool                    `json:"ShowGuides" yaml:"showGuides"`
	StickToPage  bool                    `json:"StickToPage" yaml:"stickToPage"`
	SnapToPixels bool                    `json:"SnapToPixels" yaml:"snapToPixels"`
	Associations []*FileTypesAssociation `json:"Associations" yaml:"associations"`
	CustomColors []int32                 `json:"CustomColors" yaml:"customColors"`
}

// Clone returns a deep copy of the options.
func (o *Options) Clone() *Options {
	clone := &Options{
		ShowGuides:   o.ShowGuides,
		StickToPage:  o.StickToPage,
		SnapToPixels: o.SnapToPixels,
		Associations: make([]*FileTypesAssociation, 0, len(o.Associations)),
		CustomColors: slices.Clone(o.CustomColors),
	}
	for _, a := range o.Associations {
		clone.Associations = append(clone.Associations, a.Clone())
	}
	return clone
}
