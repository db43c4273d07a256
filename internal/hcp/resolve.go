package hcp

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
)

// resolver flattens one top-level read. Its memos live exactly as long as
// that read: file contents are fetched once, and a (path, section, chain)
// combination is resolved once no matter how many sections ask for it.
type resolver struct {
	fs     FS
	logger *slog.Logger
	files  map[string][]byte
	memo   map[memoKey]*Document
}

type memoKey struct {
	path  string
	only  string
	chain string
}

func newResolver(fsys FS, logger *slog.Logger) *resolver {
	return &resolver{
		fs:     fsys,
		logger: logger,
		files:  make(map[string][]byte),
		memo:   make(map[memoKey]*Document),
	}
}

func (r *resolver) read(path string) ([]byte, error) {
	if data, ok := r.files[path]; ok {
		return data, nil
	}
	data, err := r.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	r.files[path] = data
	return data, nil
}

// resolve reads path and flattens its includes. With only set, the result
// holds nothing but the default section and that one section. Documents
// returned by resolve are shared through the memo and must not be modified
// by the caller.
func (r *resolver) resolve(path, only string, seen SeenSet) (*Document, error) {
	key := memoKey{path: path, only: only, chain: seen.key()}
	if doc, ok := r.memo[key]; ok {
		return doc, nil
	}

	seen = seen.With(path)
	data, err := r.read(path)
	if err != nil {
		return nil, err
	}
	doc, err := parse(path, data, only)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("reading configuration file", "file", path, "section", only, "depth", seen.Len())

	var defaultIncludes []Line
	var defaultKeys map[string]bool
	if defaults, ok := doc.Section(DefaultSection); ok {
		defaultIncludes = defaults.includes()
		defaultKeys = defaults.directKeys()
	}

	if err := r.introduce(doc, only, defaultIncludes, seen); err != nil {
		return nil, err
	}

	for _, name := range doc.Names() {
		if name == HeadSection {
			continue
		}
		s, _ := doc.Section(name)
		lines, err := r.expand(path, s, defaultIncludes, defaultKeys, seen)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}

	r.memo[key] = doc
	return doc, nil
}

// introduce adds to doc, as empty sections, every section declared by a
// default-section include target that doc does not have yet.
func (r *resolver) introduce(doc *Document, only string, includes []Line, seen SeenSet) error {
	for _, inc := range includes {
		target := includePath(doc.Path, inc.Target)
		if seen.Visited(target) {
			continue
		}
		sub, err := r.include(doc.Path, DefaultSection, inc, target, only, seen)
		if err != nil {
			return err
		}
		for _, name := range sub.Names() {
			if name == HeadSection || name == DefaultSection {
				continue
			}
			if only != "" && name != only {
				continue
			}
			if _, ok := doc.Section(name); ok {
				continue
			}
			var text string
			if s, _ := sub.Section(name); s != nil {
				if h, ok := s.Header(); ok {
					text = h.Text
				}
			}
			s := doc.add(name)
			s.Lines = append(s.Lines, header(name, text, target), marker(MarkIntroduced, target))
			r.logger.Debug("section introduced by default include", "file", doc.Path, "section", name, "from", target)
		}
	}
	return nil
}

// expand returns the lines of s with every include that applies to it
// inlined. Default-section includes go right after the header; the
// section's own includes go where their directives are, so they are merged
// later and win over the defaults. defaultKeys are the keys the declaring
// file's default section defines directly.
func (r *resolver) expand(path string, s *Section, defaultIncludes []Line, defaultKeys map[string]bool, seen SeenSet) ([]Line, error) {
	m := &merger{direct: s.directKeys(), included: make(map[string]int)}

	start := 0
	for start < len(s.Lines) && (s.Lines[start].Kind == KindSection || s.Lines[start].Mark == MarkIntroduced) {
		start++
	}
	m.lines = append(m.lines, s.Lines[:start]...)

	own := s.Name != DefaultSection
	if own {
		for _, inc := range defaultIncludes {
			if err := r.inline(m, path, s.Name, inc, false, nil, seen); err != nil {
				return nil, err
			}
		}
	}

	for _, l := range s.Lines[start:] {
		if !l.IsInclude() {
			m.lines = append(m.lines, l)
			continue
		}
		m.lines = append(m.lines, l.directive())
		if err := r.inline(m, path, s.Name, l, own, defaultKeys, seen); err != nil {
			return nil, err
		}
	}
	return m.lines, nil
}

// inline merges section from the file named by inc into m. withDefaults
// also offers the target's default-section options, at lower precedence
// than its own section; those are shadowed by any key in defaultKeys.
func (r *resolver) inline(m *merger, path, section string, inc Line, withDefaults bool, defaultKeys map[string]bool, seen SeenSet) error {
	target := includePath(path, inc.Target)
	if seen.Visited(target) {
		r.logger.Debug("include already being read, skipping", "file", path, "section", section, "target", target)
		m.lines = append(m.lines, marker(MarkSkipped, target))
		return nil
	}

	sub, err := r.include(path, section, inc, target, section, seen)
	if err != nil {
		return err
	}

	m.lines = append(m.lines, marker(MarkBegin, target))
	if withDefaults {
		if d, ok := sub.Section(DefaultSection); ok {
			m.merge(d.Lines, defaultKeys)
		}
	}
	if s, ok := sub.Section(section); ok {
		m.merge(s.Lines, nil)
	}
	m.lines = append(m.lines, marker(MarkEnd, target))
	return nil
}

// include resolves an include target, turning a missing target into an
// error that names the declaring file.
func (r *resolver) include(path, section string, inc Line, target, only string, seen SeenSet) (*Document, error) {
	sub, err := r.resolve(target, only, seen)
	if err != nil {
		var missing *FileNotFoundError
		if errors.As(err, &missing) && missing.Path == target {
			return nil, &IncludeTargetNotFoundError{
				File:    path,
				Section: section,
				Line:    inc.Number,
				Target:  inc.Target,
				Path:    target,
			}
		}
		return nil, err
	}
	return sub, nil
}

// includePath resolves target relative to the directory of the declaring
// file.
func includePath(declaring, target string) string {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(declaring), target)
	}
	return filepath.Clean(target)
}

// merger accumulates the flattened lines of one section.
type merger struct {
	lines []Line
	// direct holds keys the section defines itself.
	direct map[string]bool
	// included maps a key to the index of its live included line.
	included map[string]int
}

// merge appends lines. Options whose key the section defines itself, or
// that appear in shadow, are kept only as shadow comments.
func (m *merger) merge(lines []Line, shadow map[string]bool) {
	for _, l := range lines {
		switch {
		case l.Kind == KindSection, l.Mark == MarkIntroduced:
			continue
		case !l.IsOption():
			m.lines = append(m.lines, l)
		case m.direct[l.Key], shadow[l.Key]:
			m.lines = append(m.lines, l.Shadowed())
		default:
			if i, ok := m.included[l.Key]; ok {
				m.lines[i] = m.lines[i].Shadowed()
			}
			m.included[l.Key] = len(m.lines)
			m.lines = append(m.lines, l)
		}
	}
}
