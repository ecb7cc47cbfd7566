package testrunner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentSuffix marks literate program documents.
const DocumentSuffix = ".cty.md"

// walkAndProcessFiles walks a path (file or directory) and invokes onFile for each file.
// It skips common VCS/vendor directories and hidden directories below root.
func walkAndProcessFiles(root string, onFile func(p string, info os.FileInfo)) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		onFile(root, info)
		return nil
	}

	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if p == root {
				return nil
			}

			name := info.Name()
			if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}

			return nil
		}

		onFile(p, info)

		return nil
	})
}

// findDocuments lists literate programs under root in lexical order. A root
// that is a file is returned as is.
func findDocuments(root string) ([]string, error) {
	var files []string

	err := walkAndProcessFiles(root, func(p string, info os.FileInfo) {
		if p == root || strings.HasSuffix(info.Name(), DocumentSuffix) {
			files = append(files, p)
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}
