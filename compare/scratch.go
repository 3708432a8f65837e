package compare

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
)

// Preserve copies source and received images into dir under a random
// 8-letter prefix and returns the glob naming both copies.
func Preserve(dir, sourcePath, receivedPath string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}

	prefix := randomPrefix()
	if err := copyFile(sourcePath, filepath.Join(dir, prefix+"-source.bin")); err != nil {
		return "", fmt.Errorf("failed to preserve source image: %w", err)
	}
	if err := copyFile(receivedPath, filepath.Join(dir, prefix+"-received.bin")); err != nil {
		return "", fmt.Errorf("failed to preserve received image: %w", err)
	}
	return filepath.Join(dir, prefix+"-*.bin"), nil
}

func randomPrefix() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte('A' + rand.IntN(26))
	}
	return string(b)
}

// copyFile copies a single file
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
