package hcp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeFiles creates files (relative name -> content) under a fresh
// temporary directory and returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", name, err)
		}
	}
	return dir
}

// countingFS reads from disk and counts reads per path.
type countingFS struct {
	mu    sync.Mutex
	reads map[string]int
}

func newCountingFS() *countingFS {
	return &countingFS{reads: make(map[string]int)}
}

func (f *countingFS) ReadFile(name string) ([]byte, error) {
	f.mu.Lock()
	f.reads[name]++
	f.mu.Unlock()
	return os.ReadFile(name)
}

func (f *countingFS) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.reads {
		n += c
	}
	return n
}

// values flattens a Config into section -> key -> value, default section
// included.
func values(c *Config) map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, name := range append([]string{DefaultSection}, c.Sections()...) {
		if !c.HasSection(name) {
			continue
		}
		m := make(map[string]string)
		for _, o := range c.Items(name) {
			m[o.Key] = o.Value
		}
		out[name] = m
	}
	return out
}

// The fixtures below mirror the layered files the resolver was designed
// around.
const (
	file1 = `[a]
include=file2.ini
color=file1-a

[b]
color=file1-b
`
	file2 = `[a]
color=file2-a
second=file2-a

[b]
color=file2-b
second=file2-b

[c]
color=file2-c
second=file2-c
`
	file3 = `; default include pulls in every section of file2
[default]
include=file2.ini

[c]
sound=file3-c

[d]
color=file3-d
`
)

func scenarioFiles() map[string]string {
	return map[string]string{
		"file1.ini": file1,
		"file2.ini": file2,
		"file3.ini": file3,
	}
}

func newTestLoader() (*Loader, *countingFS) {
	fsys := newCountingFS()
	return &Loader{FS: fsys, Cache: NewCache()}, fsys
}
