// Package report renders resolved configurations for people and for other
// programs: YAML and JSON documents of values and their provenance, and a
// styled explanation for terminals.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hcptools/hcp/internal/hcp"
)

// Formats accepted by Write.
const (
	FormatINI  = "ini"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Entry is one resolved option.
type Entry struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Line   int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Section holds the options a section defines.
type Section struct {
	Name    string  `json:"name" yaml:"name"`
	Options []Entry `json:"options" yaml:"options"`
}

// Sections lists the default section, if any, then every other section in
// order. With blame set, entries carry the file and line they came from.
// Values inherited from the default section are listed under it only.
func Sections(cfg *hcp.Config, blame bool) []Section {
	own := make(map[string][]Entry)
	for _, o := range cfg.Blame() {
		e := Entry{Key: o.Key, Value: o.Value}
		if blame {
			e.Source, e.Line = o.Source, o.Line
		}
		own[o.Section] = append(own[o.Section], e)
	}

	names := cfg.Sections()
	if cfg.HasSection(hcp.DefaultSection) {
		names = append([]string{hcp.DefaultSection}, names...)
	}
	out := make([]Section, 0, len(names))
	for _, name := range names {
		options := own[name]
		if options == nil {
			options = []Entry{}
		}
		out = append(out, Section{Name: name, Options: options})
	}
	return out
}

// Write renders cfg in format to w.
func Write(w io.Writer, cfg *hcp.Config, format string, blame bool) error {
	switch format {
	case "", FormatINI:
		_, err := cfg.WriteTo(w)
		return err
	case FormatYAML:
		return WriteYAML(w, cfg, blame)
	case FormatJSON:
		return WriteJSON(w, cfg, blame)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// WriteJSON writes Sections(cfg, blame) as an indented JSON array.
func WriteJSON(w io.Writer, cfg *hcp.Config, blame bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Sections(cfg, blame)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
