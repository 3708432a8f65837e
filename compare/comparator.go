// Package compare checks a captured response image against a locally
// altered copy of the reference image it was generated from.
package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imagesteps/alter"
	"imagesteps/common"
	"imagesteps/config"
	"imagesteps/logging"
)

var (
	// ErrPending is returned while response comparison is switched off
	ErrPending       = errors.New("response image comparison is pending")
	ErrNotDuplicate  = errors.New("the received image is not similar enough to the source at the requested dimensions")
	ErrNotCompressed = errors.New("the received image is not smaller than the source")
)

// Alterer applies an attribute map to an image file in place
type Alterer interface {
	Alter(ctx context.Context, path string, attrs common.Attributes) error
}

// ResponseSource supplies the body of the most recently captured response
type ResponseSource interface {
	LastResponseBody() ([]byte, error)
}

// StaticResponse is a ResponseSource returning fixed bytes
type StaticResponse []byte

func (s StaticResponse) LastResponseBody() ([]byte, error) { return s, nil }

// Reference identifies the image a response was generated from. LocalPath
// is resolved against the data directory; otherwise Data holds the image.
type Reference struct {
	LocalPath string
	Data      []byte
}

// Options for a single comparison
type Options struct {
	AlterSource      common.Attributes
	EnsureCompressed bool
}

// Comparator runs response image comparisons
type Comparator struct {
	cfg       config.CompareConfig
	dataDir   string
	alterer   Alterer
	dup       Duplicator
	responses ResponseSource
}

// NewComparator wires a comparator from its collaborators
func NewComparator(cfg *config.Config, alterer Alterer, dup Duplicator, responses ResponseSource) *Comparator {
	if dup == nil {
		dup = HashDuplicator{Threshold: cfg.Compare.Threshold}
	}
	return &Comparator{
		cfg:       cfg.Compare,
		dataDir:   cfg.Fixtures.DataDir,
		alterer:   alterer,
		dup:       dup,
		responses: responses,
	}
}

// CompareFixture compares the last response against a fixture's reference image
func (c *Comparator) CompareFixture(ctx context.Context, f *common.Fixture) error {
	ref := Reference{}
	if path, ok := f.SourcePath(c.dataDir); ok {
		ref.LocalPath = path
	} else {
		data, err := f.Image()
		if err != nil {
			return err
		}
		ref.Data = data
	}
	return c.CompareResponseImage(ctx, ref, Options{
		AlterSource:      f.Alter,
		EnsureCompressed: f.EnsureCompressed || c.cfg.EnsureCompressed,
	})
}

// CompareResponseImage alters a temporary copy of ref and checks the last
// response is a perceptual duplicate of it. When the judgement fails both
// files are preserved in the scratch directory.
func (c *Comparator) CompareResponseImage(ctx context.Context, ref Reference, opts Options) error {
	if !c.cfg.Enabled {
		logging.L().Info("Response image comparison is pending, skipping")
		return ErrPending
	}

	sourcePath, cleanup, err := c.writeSource(ref)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := c.alterer.Alter(ctx, sourcePath, opts.AlterSource); err != nil {
		return fmt.Errorf("failed to alter source image: %w", err)
	}
	if format, ok := opts.AlterSource.Get(alter.AttrFormat); ok {
		// mogrify writes a reformatted copy next to the original
		converted := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + "." + format
		if _, err := os.Stat(converted); err == nil && converted != sourcePath {
			defer os.Remove(converted)
			sourcePath = converted
		}
	}

	body, err := c.responses.LastResponseBody()
	if err != nil {
		return fmt.Errorf("failed to read captured response: %w", err)
	}
	receivedPath, err := writeTemp("received-image", body)
	if err != nil {
		return err
	}
	defer os.Remove(receivedPath)

	judgement := c.judge(sourcePath, receivedPath, opts.EnsureCompressed)
	if judgement == nil {
		return nil
	}

	if dir, err := Preserve(c.cfg.ScratchDir, sourcePath, receivedPath); err != nil {
		logging.L().WithError(err).Warn("Failed to preserve images for debugging")
	} else {
		logging.L().Infof("Please check %s", dir)
	}
	return judgement
}

func (c *Comparator) judge(sourcePath, receivedPath string, ensureCompressed bool) error {
	dup, err := c.dup.Duplicate(sourcePath, receivedPath)
	if err != nil {
		return fmt.Errorf("failed to compare images: %w", err)
	}
	if !dup {
		return ErrNotDuplicate
	}
	if !ensureCompressed {
		return nil
	}

	src, err := os.Stat(sourcePath)
	if err != nil {
		return err
	}
	recv, err := os.Stat(receivedPath)
	if err != nil {
		return err
	}
	if recv.Size() >= src.Size() {
		return fmt.Errorf("%w (%d >= %d bytes)", ErrNotCompressed, recv.Size(), src.Size())
	}
	return nil
}

func (c *Comparator) writeSource(ref Reference) (string, func(), error) {
	data := ref.Data
	if ref.LocalPath != "" {
		var err error
		data, err = os.ReadFile(ref.LocalPath)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read reference image: %w", err)
		}
	}
	path, err := writeTemp("source-image", data)
	if err != nil {
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}

func writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}
