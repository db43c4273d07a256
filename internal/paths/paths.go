// Package paths expands $VAR references in paths with values from the
// [paths] section of a configuration. A variable may be overridden for one
// machine by an option named VAR@hostname:
//
//	[paths]
//	ROOT = /mnt
//	ROOT@test1.example.com = /mnt-us
package paths

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/hcptools/hcp/internal/hcp"
)

// Section is the section variables are read from.
const Section = "paths"

// maxExpansions bounds substitution so variables that refer to each other
// cannot loop forever.
const maxExpansions = 64

var varRE = regexp.MustCompile(`\$[A-Z_0-9]+`)

// ErrUnknownVariable is returned for a variable the configuration does not
// define.
var ErrUnknownVariable = errors.New("unknown variable")

// Expander substitutes variables from a configuration.
type Expander struct {
	Config *hcp.Config
	// Hostname selects VAR@hostname overrides. Empty means os.Hostname.
	Hostname string
}

// Expand replaces every $VAR in path until none is left.
func (e Expander) Expand(path string) (string, error) {
	host := e.Hostname
	if host == "" {
		if h, err := os.Hostname(); err == nil {
			host = h
		}
	}

	for i := 0; i < maxExpansions; i++ {
		loc := varRE.FindStringIndex(path)
		if loc == nil {
			return path, nil
		}
		name := path[loc[0]+1 : loc[1]]
		value, err := e.lookup(name, host)
		if err != nil {
			return "", err
		}
		slog.Debug("expanding path variable", "variable", name, "value", value, "host", host)
		path = strings.ReplaceAll(path, path[loc[0]:loc[1]], value)
	}
	return "", fmt.Errorf("failed to expand %s: more than %d substitutions", path, maxExpansions)
}

func (e Expander) lookup(name, host string) (string, error) {
	if host != "" {
		if value, ok := e.Config.Get(Section, name+"@"+host); ok {
			return value, nil
		}
	}
	if value, ok := e.Config.Get(Section, name); ok {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownVariable, name)
}

// Expand expands path with the [paths] section of cfg for this machine.
func Expand(cfg *hcp.Config, path string) (string, error) {
	return Expander{Config: cfg}.Expand(path)
}
