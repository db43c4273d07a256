package hcp

import "strings"

// SeenSet is the set of files on the current resolution chain. A path enters
// the set when its file starts being read; any include of a path already in
// the set contributes nothing, which is what ends include cycles.
//
// A SeenSet is never modified in place. With returns an extended copy, so
// sibling includes each see only their own ancestors and the set is gone
// once the top-level read completes.
type SeenSet struct {
	chain []string
}

// Visited reports whether path is already on the chain.
func (s SeenSet) Visited(path string) bool {
	for _, p := range s.chain {
		if p == path {
			return true
		}
	}
	return false
}

// With returns a copy of s with path added.
func (s SeenSet) With(path string) SeenSet {
	chain := make([]string, len(s.chain), len(s.chain)+1)
	copy(chain, s.chain)
	return SeenSet{chain: append(chain, path)}
}

// Len returns the depth of the chain.
func (s SeenSet) Len() int { return len(s.chain) }

// Chain returns the visited paths, outermost first.
func (s SeenSet) Chain() []string {
	return append([]string(nil), s.chain...)
}

func (s SeenSet) key() string {
	return strings.Join(s.chain, "\x00")
}
