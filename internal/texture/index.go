package texture

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Index lists the sheet files found under a directory.
type Index struct {
	paths []string
}

// BuildIndex walks dir and collects every file with a supported extension.
// Hidden files and directories are skipped.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		idx.paths = append(idx.paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(idx.paths)
	return idx, nil
}

// Paths returns the indexed sheet paths in lexical order.
func (idx *Index) Paths() []string {
	return idx.paths
}

// Len returns the number of indexed sheets.
func (idx *Index) Len() int {
	return len(idx.paths)
}
