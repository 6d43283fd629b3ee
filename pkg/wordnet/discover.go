package wordnet

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// dumpFilePattern matches the file names of a RuWordNet XML release, e.g.
// synsets.N.xml, senses.V.xml, synset_relations.A.xml.
var dumpFilePattern = regexp.MustCompile(`(?i)^(synsets|senses|synset_relations)\.[a-z]+\.xml$`)

// DumpFiles lists the markup files of one dump, grouped by content.
// Each list is sorted lexically.
type DumpFiles struct {
	Synsets   []string
	Senses    []string
	Relations []string
}

// All returns every file of the dump, sorted.
func (f DumpFiles) All() []string {
	all := make([]string, 0, len(f.Synsets)+len(f.Senses)+len(f.Relations))
	all = append(all, f.Synsets...)
	all = append(all, f.Senses...)
	all = append(all, f.Relations...)
	sort.Strings(all)
	return all
}

// Empty reports whether no dump file was found.
func (f DumpFiles) Empty() bool {
	return len(f.Synsets) == 0 && len(f.Senses) == 0 && len(f.Relations) == 0
}

// FindFiles walks root and returns the dump files below it. Returned paths
// are joined with root.
func FindFiles(root string) (DumpFiles, error) {
	info, err := os.Stat(root)
	if err != nil {
		return DumpFiles{}, errors.Wrap(err, "could not open dump directory")
	}
	if !info.IsDir() {
		return DumpFiles{}, errors.Errorf("%s is not a directory", root)
	}

	files, err := FindFilesFS(os.DirFS(root))
	if err != nil {
		return DumpFiles{}, errors.Wrapf(err, "%s", root)
	}
	join := func(paths []string) {
		for i, p := range paths {
			paths[i] = filepath.Join(root, filepath.FromSlash(p))
		}
	}
	join(files.Synsets)
	join(files.Senses)
	join(files.Relations)
	return files, nil
}

// FindFilesFS is FindFiles over an fs.FS. Returned paths are slash
// separated and relative to the root of fsys.
func FindFilesFS(fsys fs.FS) (DumpFiles, error) {
	var files DumpFiles

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		m := dumpFilePattern.FindStringSubmatch(path.Base(p))
		if m == nil {
			return nil
		}
		switch strings.ToLower(m[1]) {
		case "synsets":
			files.Synsets = append(files.Synsets, p)
		case "senses":
			files.Senses = append(files.Senses, p)
		case "synset_relations":
			files.Relations = append(files.Relations, p)
		}
		return nil
	})
	if err != nil {
		return DumpFiles{}, errors.Wrap(err, "could not walk dump directory")
	}

	if files.Empty() {
		return DumpFiles{}, ErrNoDumpFiles
	}
	sort.Strings(files.Synsets)
	sort.Strings(files.Senses)
	sort.Strings(files.Relations)
	return files, nil
}
