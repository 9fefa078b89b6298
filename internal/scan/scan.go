package scan

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultPattern matches resource-id literals in source text. Ids are
// conventionally spelled with a distinctive "@@" prefix precisely so
// that this textual scan stays reliable across languages.
const DefaultPattern = `@@[A-Za-z][A-Za-z0-9_]*`

// Ref is one occurrence of a resource-id in a source file.
type Ref struct {
	ID   string
	File string
	Line int
}

// Scanner greps source trees for resource-id references.
type Scanner struct {
	re *regexp.Regexp
}

// New creates a scanner. An empty pattern uses DefaultPattern; the
// pattern must match the id including its prefix.
func New(pattern string) (*Scanner, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid id pattern %q: %w", pattern, err)
	}
	return &Scanner{re: re}, nil
}

// Reader scans one named input line by line.
func (s *Scanner) Reader(name string, r io.Reader) ([]Ref, error) {
	var refs []Ref
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		for _, id := range s.re.FindAllString(sc.Text(), -1) {
			refs = append(refs, Ref{ID: id, File: name, Line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return refs, nil
}

// File scans one file.
func (s *Scanner) File(path string) ([]Ref, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Reader(path, f)
}

// Dir scans all regular files under root, skipping hidden and
// underscore-prefixed directories.
func (s *Scanner) Dir(root string) ([]Ref, error) {
	var refs []Ref
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(name, ".") {
			return nil
		}
		found, err := s.File(path)
		if err != nil {
			return err
		}
		refs = append(refs, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Unique returns the distinct ids of refs, sorted.
func Unique(refs []Ref) []string {
	seen := map[string]bool{}
	var ids []string
	for _, r := range refs {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
