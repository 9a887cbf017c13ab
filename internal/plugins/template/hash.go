package template

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ubersicht-tools/widgetset/internal/i18n"
)

// ComputeHash returns the hex-encoded SHA-256 of the file at path.
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf(i18n.T("template_hash_open_file"), err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf(i18n.T("template_hash_read_file"), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeStringHash returns hex-encoded SHA-256 hash of the given string
func ComputeStringHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ComputeDirHashes hashes the named files inside dir. The result is keyed by
// file name so it can be written next to the files it describes.
func ComputeDirHashes(dir string, names ...string) (map[string]string, error) {
	ret := make(map[string]string, len(names))
	for _, name := range names {
		sum, err := ComputeHash(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		ret[name] = sum
	}
	return ret, nil
}
