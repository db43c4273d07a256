package hcp

import (
	"io"
	"strings"
)

const (
	// HeadSection holds the lines that precede the first section header.
	HeadSection = ""
	// DefaultSection is the reserved section whose options are visible in
	// every other section and whose includes apply file-wide.
	DefaultSection = "default"
)

// Section is a named, ordered run of lines. The first line of every section
// except HeadSection is its header.
type Section struct {
	Name  string
	Lines []Line
}

// Header returns the header line of s, if it has one.
func (s *Section) Header() (Line, bool) {
	if len(s.Lines) > 0 && s.Lines[0].Kind == KindSection {
		return s.Lines[0], true
	}
	return Line{}, false
}

// includes returns the live include directives of s.
func (s *Section) includes() []Line {
	var out []Line
	for _, l := range s.Lines {
		if l.IsInclude() {
			out = append(out, l)
		}
	}
	return out
}

// directKeys returns the keys s defines itself, before any include is
// merged in.
func (s *Section) directKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, l := range s.Lines {
		if l.IsOption() {
			keys[l.Key] = true
		}
	}
	return keys
}

// options returns the winning value of every key in s, ordered by first
// appearance. A later line for the same key supersedes an earlier one.
func (s *Section) options() []Option {
	var out []Option
	index := make(map[string]int)
	for _, l := range s.Lines {
		if !l.IsOption() {
			continue
		}
		o := Option{Section: s.Name, Key: l.Key, Value: l.Value, Source: l.Source, Line: l.Number}
		if i, ok := index[l.Key]; ok {
			out[i] = o
			continue
		}
		index[l.Key] = len(out)
		out = append(out, o)
	}
	return out
}

// Document is an insertion-ordered set of sections: the section store for
// one file, flattened once its includes are resolved.
type Document struct {
	// Path is the absolute path of the file the document was read from.
	Path string

	order    []string
	sections map[string]*Section
}

func newDocument(path string) *Document {
	return &Document{Path: path, sections: make(map[string]*Section)}
}

// Section looks a section up by (lowercase) name.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.sections[name]
	return s, ok
}

// Names returns section names in insertion order, HeadSection included.
func (d *Document) Names() []string {
	return append([]string(nil), d.order...)
}

// add returns the named section, appending an empty one if it is missing.
func (d *Document) add(name string) *Section {
	if s, ok := d.sections[name]; ok {
		return s
	}
	s := &Section{Name: name}
	d.sections[name] = s
	d.order = append(d.order, name)
	return s
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := newDocument(d.Path)
	for _, name := range d.order {
		s := d.sections[name]
		c.add(name).Lines = append([]Line(nil), s.Lines...)
	}
	return c
}

// WriteTo writes the rendered document to w. Every line is terminated, even
// one that was read without a trailing newline.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, name := range d.order {
		for _, l := range d.sections[name].Lines {
			eol := l.EOL
			if eol == "" {
				eol = "\n"
			}
			n, err := io.WriteString(w, l.Render()+eol)
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (d *Document) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}

// Parse classifies data as a single configuration file without following
// any include. source names the file in provenance and errors.
func Parse(source string, data []byte) (*Document, error) {
	return parse(source, data, "")
}

// parse builds the document for one physical file. When only is set, just
// the default section and the section named only are retained.
func parse(source string, data []byte, only string) (*Document, error) {
	doc := newDocument(source)
	current := HeadSection
	headers := make(map[string]int)

	for i, raw := range splitLines(data) {
		l := Classify(raw.text)
		l.EOL = raw.eol
		l.Source = source
		l.Number = i + 1

		switch {
		case l.Kind == KindSection:
			if first, dup := headers[l.Name]; dup {
				return nil, &DuplicateSectionError{Name: l.Name, File: source, Line: l.Number, First: first}
			}
			headers[l.Name] = l.Number
			current = l.Name
		case l.Kind == KindInclude && current == HeadSection:
			// Includes only mean something inside a section.
			l.Kind = KindOther
			l.Target = ""
		}

		if only != "" && current != DefaultSection && current != only {
			continue
		}
		s := doc.add(current)
		s.Lines = append(s.Lines, l)
	}
	return doc, nil
}
