package colguide

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
)

// DecodeOptions parses a persisted options document.
func DecodeOptions(data []byte) (*Options, error) {
	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return &opts, nil
}

// EncodeOptions renders opts as an indented options document.
func EncodeOptions(opts *Options) ([]byte, error) {
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// SettingsStore persists an OptionsModel's tree as a JSON document.
// Applying loaded options replaces the model's tree, which every attached
// Adornment sees as a reset.
type SettingsStore struct {
	fs     FileSystemInterface
	path   string
	model  *OptionsModel
	logger *slog.Logger

	// last document read or written, used to skip no-op reloads
	last []byte
}

// NewSettingsStore returns a store for model backed by path. An empty path
// gives a store that can import and export but not load or save.
func NewSettingsStore(fsys FileSystemInterface, path string, model *OptionsModel, logger *slog.Logger) *SettingsStore {
	if fsys == nil {
		fsys = &localFileSystem{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &SettingsStore{fs: fsys, path: path, model: model, logger: logger}
}

// Path returns the options file path.
func (s *SettingsStore) Path() string { return s.path }

// Persistent reports whether the store has a file to read and write.
func (s *SettingsStore) Persistent() bool { return s.path != "" }

// Options returns the model's current tree.
func (s *SettingsStore) Options() *Options { return s.model.Options() }

// Load reads the options file and applies it. A missing file leaves the
// model untouched and reports false.
func (s *SettingsStore) Load() (bool, error) {
	if !s.Persistent() {
		return false, ErrNoSettingsPath
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := s.apply(data); err != nil {
		return false, err
	}
	return true, nil
}

// Reload is Load for file watchers: it reports false without touching the
// model when the file is missing or unchanged since the last load or save.
func (s *SettingsStore) Reload() (bool, error) {
	if !s.Persistent() {
		return false, ErrNoSettingsPath
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if s.last != nil && bytes.Equal(data, s.last) {
		return false, nil
	}
	if err := s.apply(data); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the model's tree to the options file.
func (s *SettingsStore) Save() error {
	if !s.Persistent() {
		return ErrNoSettingsPath
	}
	data, err := EncodeOptions(s.model.Options())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.last = data
	return nil
}

// Reset restores the settings' initial options and saves them when the
// store is persistent.
func (s *SettingsStore) Reset() error {
	s.model.SetOptions(s.model.Settings().InitialOptions.Clone())
	if !s.Persistent() {
		return nil
	}
	return s.Save()
}

// Import reads an options document from r, applies it and saves it when
// the store is persistent.
func (s *SettingsStore) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	opts, err := DecodeOptions(data)
	if err != nil {
		return err
	}
	s.normalize(opts)
	s.model.SetOptions(opts)
	if !s.Persistent() {
		return nil
	}
	return s.Save()
}

// Export writes the model's tree to w.
func (s *SettingsStore) Export(w io.Writer) error {
	data, err := EncodeOptions(s.model.Options())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (s *SettingsStore) apply(data []byte) error {
	opts, err := DecodeOptions(data)
	if err != nil {
		s.logger.Warn("ignoring malformed options file", "path", s.path, "error", err)
		return err
	}
	s.normalize(opts)
	s.last = data
	s.model.SetOptions(opts)
	return nil
}

// normalize clamps a decoded tree to the model's limits.
func (s *SettingsStore) normalize(opts *Options) {
	settings := s.model.Settings()

	opts.Associations = slices.DeleteFunc(opts.Associations, func(a *FileTypesAssociation) bool { return a == nil })
	if len(opts.Associations) > settings.MaxAssociationCount {
		opts.Associations = opts.Associations[:settings.MaxAssociationCount]
	}
	for _, a := range opts.Associations {
		a.SetFileTypes(truncateRunes(a.FileTypes(), settings.MaxAssociationFileTypesLength))
		a.Guides = slices.DeleteFunc(a.Guides, func(g *Guide) bool { return g == nil })
		if len(a.Guides) > settings.MaxAssociationGuideCount {
			a.Guides = a.Guides[:settings.MaxAssociationGuideCount]
		}
		for _, g := range a.Guides {
			g.Column = min(max(g.Column, 0), settings.MaxGuideColumn)
			g.Width = max(g.Width, 1)
			if g.Dashes == nil {
				g.Dashes = settings.DefaultDashes()
			}
		}
	}
}
