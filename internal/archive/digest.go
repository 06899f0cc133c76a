package archive

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest computes the BLAKE3-256 digest of the file at path, rendered as
// "blake3:<hex>". It is attached to uploaded archives as an audit anchor:
// a later listing can verify which local build produced a remote object.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return "blake3:" + hex.EncodeToString(h.Sum(nil)), nil
}
