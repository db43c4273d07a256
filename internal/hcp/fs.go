package hcp

import "os"

// FS is where the resolver gets file contents from. Paths handed to
// ReadFile are always absolute. A missing file must yield an error that
// matches fs.ErrNotExist.
type FS interface {
	ReadFile(name string) ([]byte, error)
}

// OSFS reads from the local filesystem.
type OSFS struct{}

func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
