package hcp

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrIncludeNotFound  = errors.New("include target not found")
	ErrDuplicateSection = errors.New("duplicate section")
	ErrValidation       = errors.New("validation failed")
)

// FileNotFoundError reports a configuration file that does not exist.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s: file not found", e.Path)
}

func (e *FileNotFoundError) Is(target error) bool { return target == ErrFileNotFound }

func (e *FileNotFoundError) Unwrap() error { return e.Err }

// IncludeTargetNotFoundError reports an INCLUDE directive naming a file that
// does not exist. File is the declaring file, Target the path as written and
// Path its absolute form.
type IncludeTargetNotFoundError struct {
	File    string
	Section string
	Line    int
	Target  string
	Path    string
}

func (e *IncludeTargetNotFoundError) Error() string {
	return fmt.Sprintf("%s:%d: [%s] INCLUDE=%s: %s not found", e.File, e.Line, e.Section, e.Target, e.Path)
}

func (e *IncludeTargetNotFoundError) Is(target error) bool { return target == ErrIncludeNotFound }

// DuplicateSectionError reports a section header that appears twice in one
// physical file.
type DuplicateSectionError struct {
	Name  string
	File  string
	Line  int
	First int
}

func (e *DuplicateSectionError) Error() string {
	return fmt.Sprintf("%s:%d: section [%s] already declared on line %d", e.File, e.Line, e.Name, e.First)
}

func (e *DuplicateSectionError) Is(target error) bool { return target == ErrDuplicateSection }

// ReadError is returned by Loader.Read and wraps whatever stopped the read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read configuration %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
