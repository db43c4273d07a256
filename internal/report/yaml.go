package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hcptools/hcp/internal/hcp"
)

// Node builds a YAML mapping of section to option to value that keeps the
// order of the configuration. With blame set, every value carries a line
// comment naming the file and line it came from.
func Node(cfg *hcp.Config, blame bool) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range Sections(cfg, blame) {
		options := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range s.Options {
			value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value}
			if blame {
				value.LineComment = fmt.Sprintf("# %s:%d", e.Source, e.Line)
			}
			options.Content = append(options.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: e.Key},
				value,
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.Name},
			options,
		)
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

// WriteYAML writes Node(cfg, blame) to w.
func WriteYAML(w io.Writer, cfg *hcp.Config, blame bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Node(cfg, blame)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
