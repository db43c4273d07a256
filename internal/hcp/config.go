package hcp

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Option is the winning value of one (section, key) pair and the file that
// supplied it.
type Option struct {
	Section string
	Key     string
	Value   string
	// Source is the absolute path of the file the value was read from.
	Source string
	// Line is the line number of the value in Source.
	Line int
}

// Loader reads configuration files. The zero value reads from the local
// filesystem without caching and logs to slog.Default().
type Loader struct {
	// FS supplies file contents. Nil means OSFS.
	FS FS
	// Cache, if set, holds resolved documents across reads.
	Cache *Cache
	// Logger, if set, replaces slog.Default().
	Logger *slog.Logger
	// Validate runs Config.Validate as part of every Read.
	Validate bool
}

// NewLoader returns a Loader for the local filesystem with its own cache.
func NewLoader() *Loader {
	return &Loader{FS: OSFS{}, Cache: NewCache()}
}

var defaultLoader = NewLoader()

// Read reads path with the process-wide loader and cache.
func Read(path string) (*Config, error) {
	return defaultLoader.Read(path)
}

// ClearCache empties the process-wide cache used by Read.
func ClearCache() {
	defaultLoader.Cache.Clear()
}

// Read resolves path and every file it includes and returns the resulting
// configuration. It either returns a complete Config or a *ReadError.
func (l *Loader) Read(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	logger := l.logger().With("resolution", uuid.NewString(), "path", abs)

	doc, err := l.resolve(abs, logger)
	if err != nil {
		logger.Error("failed to resolve configuration", "error", err)
		return nil, &ReadError{Path: abs, Err: err}
	}

	cfg := newConfig(doc)
	if l.Validate {
		if err := cfg.Validate(); err != nil {
			logger.Error("configuration failed validation", "error", err)
			return nil, &ReadError{Path: abs, Err: err}
		}
	}
	return cfg, nil
}

func (l *Loader) resolve(abs string, logger *slog.Logger) (*Document, error) {
	compute := func() (*Document, error) {
		r := newResolver(l.fs(), logger)
		doc, err := r.resolve(abs, "", SeenSet{})
		if err != nil {
			return nil, err
		}
		logger.Debug("configuration resolved", "files", len(r.files), "sections", len(doc.Names()))
		return doc, nil
	}
	if l.Cache == nil {
		return compute()
	}
	doc, hit, err := l.Cache.Resolve(abs, compute)
	if hit {
		logger.Debug("configuration served from cache")
	}
	return doc, err
}

func (l *Loader) fs() FS {
	if l.FS == nil {
		return OSFS{}
	}
	return l.FS
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Config is the read-only view of a resolved configuration. Section and key
// lookups are case-insensitive. Options of the default section are visible
// in every section that does not define them itself.
type Config struct {
	doc      *Document
	sections []string
	options  map[string][]Option
	index    map[string]map[string]int
}

// Materialize builds a Config from an already resolved (or plainly parsed)
// document. The document is copied.
func Materialize(doc *Document) *Config {
	return newConfig(doc.Clone())
}

func newConfig(doc *Document) *Config {
	c := &Config{
		doc:     doc,
		options: make(map[string][]Option),
		index:   make(map[string]map[string]int),
	}
	for _, name := range doc.Names() {
		if name == HeadSection {
			continue
		}
		if name != DefaultSection {
			c.sections = append(c.sections, name)
		}
		s, _ := doc.Section(name)
		opts := s.options()
		idx := make(map[string]int, len(opts))
		for i, o := range opts {
			idx[o.Key] = i
		}
		c.options[name] = opts
		c.index[name] = idx
	}
	return c
}

// Path returns the absolute path of the file that was read.
func (c *Config) Path() string { return c.doc.Path }

// Sections returns section names in the order the root file declares them,
// followed by sections introduced through default includes in the order
// they were discovered. The default section is not listed.
func (c *Config) Sections() []string {
	return append([]string(nil), c.sections...)
}

// HasSection reports whether the section exists.
func (c *Config) HasSection(section string) bool {
	_, ok := c.options[strings.ToLower(section)]
	return ok
}

func (c *Config) lookup(section, key string) (Option, bool) {
	section, key = strings.ToLower(section), strings.ToLower(key)
	idx, ok := c.index[section]
	if !ok {
		return Option{}, false
	}
	if i, ok := idx[key]; ok {
		return c.options[section][i], true
	}
	if section == DefaultSection {
		return Option{}, false
	}
	if i, ok := c.index[DefaultSection][key]; ok {
		return c.options[DefaultSection][i], true
	}
	return Option{}, false
}

// Get returns the value of key in section.
func (c *Config) Get(section, key string) (string, bool) {
	o, ok := c.lookup(section, key)
	return o.Value, ok
}

// Explain returns the path of the file that supplied the value of key in
// section.
func (c *Config) Explain(section, key string) (string, bool) {
	o, ok := c.lookup(section, key)
	return o.Source, ok
}

// Lookup returns the winning option with its provenance.
func (c *Config) Lookup(section, key string) (Option, bool) {
	return c.lookup(section, key)
}

// Items returns the options visible in section: its own, in order, then any
// default-section option it does not override.
func (c *Config) Items(section string) []Option {
	section = strings.ToLower(section)
	own, ok := c.options[section]
	if !ok {
		return nil
	}
	items := append([]Option(nil), own...)
	if section == DefaultSection {
		return items
	}
	for _, o := range c.options[DefaultSection] {
		if _, shadowed := c.index[section][o.Key]; !shadowed {
			items = append(items, o)
		}
	}
	return items
}

// Options returns the keys visible in section, in the order of Items.
func (c *Config) Options(section string) []string {
	var keys []string
	for _, o := range c.Items(section) {
		keys = append(keys, o.Key)
	}
	return keys
}

// Defaults returns the options of the default section.
func (c *Config) Defaults() []Option {
	return append([]Option(nil), c.options[DefaultSection]...)
}

// Blame returns every option each section defines, default section first,
// with the file that supplied it. Default values inherited by other
// sections are reported once, under the default section.
func (c *Config) Blame() []Option {
	var out []Option
	out = append(out, c.options[DefaultSection]...)
	for _, name := range c.sections {
		out = append(out, c.options[name]...)
	}
	return out
}

// Serialize returns the flattened configuration as text: include content
// inlined between marker comments, shadowed values commented out. Read back
// without includes, it yields the same values as c.
func (c *Config) Serialize() string {
	return c.doc.String()
}

// WriteTo writes Serialize's output to w.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	return c.doc.WriteTo(w)
}

// WriteExplanation writes, per section, where every value came from as
// "file:option = value" lines.
func (c *Config) WriteExplanation(w io.Writer) error {
	names := append([]string(nil), c.sections...)
	if _, ok := c.options[DefaultSection]; ok {
		names = append(names, DefaultSection)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintf(w, "# Explaining %s\n# format:  filename:option = value\n", c.Path()); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "[%s]\n", name); err != nil {
			return err
		}
		for _, o := range c.options[name] {
			if _, err := fmt.Fprintf(w, "%s:%s = %s\n", o.Source, o.Key, o.Value); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
