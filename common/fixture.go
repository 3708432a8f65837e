package common

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture describes a reference image used by an image scenario
type Fixture struct {
	FilePath string `yaml:"-"` // Internal use only - do not read from YAML

	// Required fields
	Name string `yaml:"name"`

	// Exactly one of LocalPath or ImageData identifies the reference image.
	// LocalPath is relative to the fixtures data directory.
	LocalPath string `yaml:"local_path,omitempty"`
	ImageData string `yaml:"image_data,omitempty"` // base64

	// Transform applied to the reference before comparison
	Alter Attributes `yaml:"alter,omitempty"`

	// Expected metadata of the response image
	Details Attributes `yaml:"details,omitempty"`

	// Compare options
	EnsureCompressed bool `yaml:"ensure_compressed,omitempty"`
}

// ParseFixture reads a fixture descriptor file
func ParseFixture(filePath string) (*Fixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fixture := &Fixture{FilePath: filePath}
	if err := yaml.Unmarshal(data, fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	// Validate required fields
	if fixture.Name == "" {
		return nil, fmt.Errorf("missing required field: name")
	}
	if fixture.LocalPath == "" && fixture.ImageData == "" {
		return nil, fmt.Errorf("fixture %s: one of local_path or image_data is required", fixture.Name)
	}
	if fixture.LocalPath != "" && fixture.ImageData != "" {
		return nil, fmt.Errorf("fixture %s: local_path and image_data are mutually exclusive", fixture.Name)
	}

	return fixture, nil
}

// SourcePath resolves LocalPath against the fixtures data directory.
// It returns false for fixtures carrying inline image data.
func (f *Fixture) SourcePath(dataDir string) (string, bool) {
	if f.LocalPath == "" {
		return "", false
	}
	if filepath.IsAbs(f.LocalPath) {
		return f.LocalPath, true
	}
	return filepath.Join(dataDir, f.LocalPath), true
}

// Image returns the decoded inline image bytes
func (f *Fixture) Image() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(f.ImageData))
	if err != nil {
		return nil, fmt.Errorf("fixture %s: failed to decode image_data: %w", f.Name, err)
	}
	return data, nil
}

// ExpectedDetails returns the normalized expected metadata
func (f *Fixture) ExpectedDetails() map[string]string {
	return NormalizeAttributeKeys(f.Details)
}

// GetSlug returns a file-name friendly slug from the fixture name
func (f *Fixture) GetSlug() string {
	slug := strings.ToLower(f.Name)
	slug = strings.ReplaceAll(slug, " ", "-")
	// Remove non-alphanumeric characters except hyphens
	slug = regexp.MustCompile(`[^a-z0-9-]+`).ReplaceAllString(slug, "")
	return slug
}
