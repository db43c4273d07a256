package hcp

import (
	"regexp"
	"strings"
)

// Kind tags what a single line of a configuration file declares.
type Kind int

const (
	// KindOther covers blank lines, comments and anything unparseable.
	KindOther Kind = iota
	// KindSection is a "[name]" header.
	KindSection
	// KindOption is a "key = value" or "key: value" line.
	KindOption
	// KindInclude is an "INCLUDE = path" directive.
	KindInclude
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindOption:
		return "option"
	case KindInclude:
		return "include"
	default:
		return "other"
	}
}

// Mark records how a line renders in flattened output. Any line with a mark
// other than MarkNone is inert: it never contributes an option.
type Mark int

const (
	MarkNone Mark = iota
	// MarkShadowed is an included option suppressed by a higher-precedence one.
	MarkShadowed
	// MarkDirective is an INCLUDE line whose target has been inlined.
	MarkDirective
	// MarkBegin and MarkEnd bracket inlined include content.
	MarkBegin
	MarkEnd
	// MarkIntroduced follows the header of a section that only exists
	// because a default-section include declared it.
	MarkIntroduced
	// MarkSkipped replaces an include whose target is already being read.
	MarkSkipped
)

const (
	commentPrefix  = "; "
	shadowedPrefix = "; [SHADOWED] "
)

var (
	sectionRE        = regexp.MustCompile(`^\[([^\]]+)\]\s*:?\s*$`)
	includeKeywordRE = regexp.MustCompile(`(?i)^\s*include\s*[=:]`)
	includeRE        = regexp.MustCompile(`(?i)^\s*include\s*[=:]\s*([^;]*?)\s*(;.*)?$`)
	optionRE         = regexp.MustCompile(`^\s*([\w.@-]+)\s*[=:]\s*(.*)$`)
)

// Line is one classified physical line. Lines are values: resolution derives
// new lines (see Shadowed) rather than editing existing ones.
type Line struct {
	Kind Kind
	Mark Mark

	// Text is the line as read, without its terminator.
	Text string
	// EOL is the terminator as read: "\n", "\r\n", or "" for an
	// unterminated last line.
	EOL string

	// Name is the lowercased section name of a KindSection line.
	Name string
	// Key and Value are set for KindOption lines. Key is lowercased.
	Key   string
	Value string
	// Target is the path named by a KindInclude line, as written.
	Target string

	// Source is the absolute path of the file the line was read from and
	// Number its 1-based position there. Marker lines carry the path of the
	// include they describe and no number.
	Source string
	Number int
}

// Classify turns one line (without terminator) into a Line. It never fails;
// anything it cannot make sense of is KindOther.
func Classify(text string) Line {
	l := Line{Kind: KindOther, Text: text}

	if m := sectionRE.FindStringSubmatch(text); m != nil {
		name := strings.ToLower(strings.TrimSpace(m[1]))
		if name == HeadSection {
			// A blank name would reopen the head of the file.
			return l
		}
		l.Kind = KindSection
		l.Name = name
		return l
	}

	if includeKeywordRE.MatchString(text) {
		m := includeRE.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			// Malformed include: keep it inert rather than reading it as an
			// option called "include".
			return l
		}
		l.Kind = KindInclude
		l.Target = m[1]
		return l
	}

	if m := optionRE.FindStringSubmatch(text); m != nil {
		l.Kind = KindOption
		l.Key = strings.ToLower(m[1])
		l.Value = unquote(strings.TrimSpace(m[2]))
		return l
	}

	return l
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// IsOption reports whether the line contributes an option value.
func (l Line) IsOption() bool {
	return l.Kind == KindOption && l.Mark == MarkNone
}

// IsInclude reports whether the line is a live include directive.
func (l Line) IsInclude() bool {
	return l.Kind == KindInclude && l.Mark == MarkNone
}

// Shadowed returns a copy of l that renders as a shadow comment.
func (l Line) Shadowed() Line {
	l.Mark = MarkShadowed
	return l
}

func (l Line) directive() Line {
	l.Mark = MarkDirective
	return l
}

// Render returns the text of l as it appears in flattened output.
func (l Line) Render() string {
	switch l.Mark {
	case MarkShadowed:
		return shadowedPrefix + l.Text
	case MarkDirective:
		return commentPrefix + l.Text
	default:
		return l.Text
	}
}

func marker(mark Mark, path string) Line {
	var text string
	switch mark {
	case MarkBegin:
		text = "; begin include from " + path
	case MarkEnd:
		text = "; end include from " + path
	case MarkIntroduced:
		text = "; section introduced by include from " + path
	case MarkSkipped:
		text = "; include of " + path + " skipped: already being read"
	}
	return Line{Kind: KindOther, Mark: mark, Text: text, EOL: "\n", Source: path}
}

func header(name, text, source string) Line {
	if text == "" {
		text = "[" + name + "]"
	}
	return Line{Kind: KindSection, Name: name, Text: text, EOL: "\n", Source: source}
}

// rawLine is a physical line split from file contents.
type rawLine struct {
	text string
	eol  string
}

// splitLines splits data into lines, keeping each terminator as read.
func splitLines(data []byte) []rawLine {
	var lines []rawLine
	s := string(data)
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, rawLine{text: s})
			break
		}
		text, eol := s[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r\n"
		}
		lines = append(lines, rawLine{text: text, eol: eol})
		s = s[i+1:]
	}
	return lines
}
