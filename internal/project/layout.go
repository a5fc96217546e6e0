package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/PackView/internal/model"
)

// FileExtension is the extension of saved layout files.
const FileExtension = ".packview"

// formatVersion is written into every saved layout.
const formatVersion = "1.0.0"

// ErrMissingVersion is returned for a layout file without a version field.
var ErrMissingVersion = errors.New("invalid layout file: missing version field")

// LayoutFile is the on-disk envelope of a saved layout.
type LayoutFile struct {
	Version string       `json:"version"`
	SavedAt string       `json:"saved_at"`
	Layout  model.Layout `json:"layout"`
}

// SaveLayout writes layout to path as a versioned JSON document, creating
// parent directories as needed.
func SaveLayout(path string, layout model.Layout) error {
	if err := layout.Bin.Validate(); err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	file := LayoutFile{
		Version: formatVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Layout:  layout,
	}
	if file.Layout.Rectangles == nil {
		file.Layout.Rectangles = []model.PlacedRectangle{}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}

// LoadLayout reads a layout saved by SaveLayout. Rectangles without an ID
// are given one.
func LoadLayout(path string) (model.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	var file LayoutFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Layout{}, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if file.Version == "" {
		return model.Layout{}, ErrMissingVersion
	}

	layout := file.Layout
	if err := layout.Bin.Validate(); err != nil {
		return model.Layout{}, fmt.Errorf("failed to load layout: %w", err)
	}
	if layout.Rectangles == nil {
		layout.Rectangles = []model.PlacedRectangle{}
	}
	layout.EnsureIDs()
	return layout, nil
}
