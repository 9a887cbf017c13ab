package fsdb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// StorageEntity is a directory of named files sharing one extension.
type StorageEntity struct {
	Label         string
	Dir           string
	FileExtension string
}

// BuildFilePath returns the path of the item called name.
func (o *StorageEntity) BuildFilePath(name string) string {
	return filepath.Join(o.Dir, name+o.FileExtension)
}

// Exists reports whether the item is present on disk.
func (o *StorageEntity) Exists(name string) bool {
	_, err := os.Stat(o.BuildFilePath(name))
	return err == nil
}

// Load reads the raw content of the item called name.
func (o *StorageEntity) Load(name string) ([]byte, error) {
	content, err := os.ReadFile(o.BuildFilePath(name))
	if err != nil {
		return nil, fmt.Errorf("could not load %s %s: %w", o.Label, name, err)
	}
	return content, nil
}

// GetNames lists the item names in lexical order.
func (o *StorageEntity) GetNames() ([]string, error) {
	entries, err := os.ReadDir(o.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var ret []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), o.FileExtension) {
			continue
		}
		ret = append(ret, strings.TrimSuffix(e.Name(), o.FileExtension))
	}
	sort.Strings(ret)
	return ret, nil
}
