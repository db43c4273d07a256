package hcp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Companion option suffixes understood by Validate. For an option "port",
// "port.re" holds a pattern its value must match in full and
// "port.required = true" makes its absence an error.
const (
	patternSuffix  = ".re"
	requiredSuffix = ".required"
)

// Rule names the check a ValidationError failed.
type Rule string

const (
	RulePattern  Rule = "pattern"
	RuleRequired Rule = "required"
	RuleBadRule  Rule = "bad-rule"
)

// ValidationError describes one option that failed its companion rule.
type ValidationError struct {
	Rule    Rule
	Section string
	Option  string
	Value   string
	Pattern string
	// Source is the file that declared the rule.
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RulePattern:
		return fmt.Sprintf("[%s] %s = %q does not match %s (rule from %s)", e.Section, e.Option, e.Value, e.Pattern, e.Source)
	case RuleRequired:
		return fmt.Sprintf("[%s] %s is required (rule from %s)", e.Section, e.Option, e.Source)
	default:
		return fmt.Sprintf("[%s] %s: invalid rule %q in %s: %v", e.Section, e.Option, e.Pattern, e.Source, e.Err)
	}
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks every ".re" and ".required" companion option against the
// option it describes. Rules apply in the section that declares them; the
// value they check is looked up with the default-section fallback. All
// failures are returned together.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range append([]string{DefaultSection}, c.sections...) {
		for _, rule := range c.options[name] {
			if err := c.check(name, rule); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Config) check(section string, rule Option) error {
	switch {
	case strings.HasSuffix(rule.Key, patternSuffix):
		option := strings.TrimSuffix(rule.Key, patternSuffix)
		value, ok := c.Get(section, option)
		if !ok {
			return nil
		}
		re, err := regexp.Compile(`^(?:` + rule.Value + `)$`)
		if err != nil {
			return &ValidationError{Rule: RuleBadRule, Section: section, Option: option, Pattern: rule.Value, Source: rule.Source, Err: err}
		}
		if !re.MatchString(value) {
			return &ValidationError{Rule: RulePattern, Section: section, Option: option, Value: value, Pattern: rule.Value, Source: rule.Source}
		}
	case strings.HasSuffix(rule.Key, requiredSuffix):
		option := strings.TrimSuffix(rule.Key, requiredSuffix)
		if !truthy(rule.Value) {
			return nil
		}
		if _, ok := c.Get(section, option); !ok {
			return &ValidationError{Rule: RuleRequired, Section: section, Option: option, Source: rule.Source}
		}
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
