package compare

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// DefaultThreshold is the largest Hamming distance between two perceptual
// hashes still judged a duplicate
const DefaultThreshold = 10

// Duplicator judges whether two image files show the same picture
type Duplicator interface {
	Duplicate(sourcePath, receivedPath string) (bool, error)
}

// HashDuplicator compares 64-bit perceptual hashes
type HashDuplicator struct {
	Threshold int
}

// Duplicate reports whether the hashes of both files are within Threshold bits
func (d HashDuplicator) Duplicate(sourcePath, receivedPath string) (bool, error) {
	dist, err := d.Distance(sourcePath, receivedPath)
	if err != nil {
		return false, err
	}
	return dist <= d.Threshold, nil
}

// Distance returns the Hamming distance between the perceptual hashes of both files
func (d HashDuplicator) Distance(sourcePath, receivedPath string) (int, error) {
	a, err := hashFile(sourcePath)
	if err != nil {
		return 0, err
	}
	b, err := hashFile(receivedPath)
	if err != nil {
		return 0, err
	}
	return a.Distance(b)
}

func hashFile(path string) (*goimagehash.ImageHash, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hash, nil
}
