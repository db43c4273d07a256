package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/hcptools/hcp/internal/hcp"
)

// Explainer writes where each value of a configuration came from. When
// Styled is false the output is exactly Config.WriteExplanation.
type Explainer struct {
	Styled bool
}

// Write explains every option of cfg.
func (e Explainer) Write(w io.Writer, cfg *hcp.Config) error {
	if !e.Styled {
		return cfg.WriteExplanation(w)
	}

	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	sourceStyle := r.NewStyle().Foreground(lipgloss.Color("240"))
	keyStyle := r.NewStyle().Foreground(lipgloss.Color("229"))

	groups := Sections(cfg, true)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	if _, err := fmt.Fprintln(w, titleStyle.Render("Explaining "+cfg.Path())); err != nil {
		return err
	}
	for _, s := range groups {
		if _, err := fmt.Fprintln(w, sectionStyle.Render("["+s.Name+"]")); err != nil {
			return err
		}
		for _, o := range s.Options {
			source := sourceStyle.Render(fmt.Sprintf("%s:%d", o.Source, o.Line))
			if _, err := fmt.Fprintf(w, "  %s = %s  %s\n", keyStyle.Render(o.Key), o.Value, source); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteOption explains a single option.
func (e Explainer) WriteOption(w io.Writer, cfg *hcp.Config, section, key string) error {
	o, ok := cfg.Lookup(section, key)
	if !ok {
		return fmt.Errorf("no option %q in section [%s]", key, section)
	}
	if !e.Styled {
		_, err := fmt.Fprintf(w, "%s:%d:%s = %s\n", o.Source, o.Line, o.Key, o.Value)
		return err
	}
	r := lipgloss.NewRenderer(w)
	_, err := fmt.Fprintf(w, "%s = %s  %s\n",
		r.NewStyle().Foreground(lipgloss.Color("229")).Render(o.Key),
		o.Value,
		r.NewStyle().Foreground(lipgloss.Color("240")).Render(fmt.Sprintf("%s:%d", o.Source, o.Line)),
	)
	return err
}
