package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imagesteps/common"
)

// Renderer writes altered copies of fixture reference images
type Renderer struct {
	dataDir   string
	outputDir string
	alterer   Alterer
}

// NewRenderer creates a renderer reading from dataDir and writing to outputDir
func NewRenderer(dataDir, outputDir string, alterer Alterer) *Renderer {
	return &Renderer{dataDir: dataDir, outputDir: outputDir, alterer: alterer}
}

// RenderFile parses the fixture at path and renders it
func (r *Renderer) RenderFile(ctx context.Context, path string) (string, error) {
	fixture, err := common.ParseFixture(path)
	if err != nil {
		return "", err
	}
	return r.Render(ctx, fixture)
}

// Render copies the fixture's reference image into the output directory
// and alters the copy. It returns the path of the altered image.
func (r *Renderer) Render(ctx context.Context, fixture *common.Fixture) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)
	if src, ok := fixture.SourcePath(r.dataDir); ok {
		data, err = os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("failed to read reference image: %w", err)
		}
		ext = filepath.Ext(src)
	} else {
		data, err = fixture.Image()
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dst := filepath.Join(r.outputDir, fixture.GetSlug()+ext)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write reference copy: %w", err)
	}

	if err := r.alterer.Alter(ctx, dst, fixture.Alter); err != nil {
		return "", fmt.Errorf("failed to alter %s: %w", fixture.Name, err)
	}
	return dst, nil
}
