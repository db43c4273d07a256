package hcp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Line
	}{
		{
			name:     "section header",
			input:    "[Database]",
			expected: Line{Kind: KindSection, Name: "database"},
		},
		{
			name:     "section header with trailing colon",
			input:    "[geodict]:  ",
			expected: Line{Kind: KindSection, Name: "geodict"},
		},
		{
			name:     "blank section name is inert",
			input:    "[  ]",
			expected: Line{Kind: KindOther},
		},
		{
			name:     "include",
			input:    "INCLUDE=foobar",
			expected: Line{Kind: KindInclude, Target: "foobar"},
		},
		{
			name:     "include with spaces and trailing comment",
			input:    "     INCLUDE = foo/bar        ;lovely comments",
			expected: Line{Kind: KindInclude, Target: "foo/bar"},
		},
		{
			name:     "include with colon separator",
			input:    "include: ../common.ini",
			expected: Line{Kind: KindInclude, Target: "../common.ini"},
		},
		{
			name:     "include without a path is inert",
			input:    "include = ;nothing here",
			expected: Line{Kind: KindOther},
		},
		{
			name:     "option with equals",
			input:    "foo = bar",
			expected: Line{Kind: KindOption, Key: "foo", Value: "bar"},
		},
		{
			name:     "option with colon",
			input:    "foo: bar",
			expected: Line{Kind: KindOption, Key: "foo", Value: "bar"},
		},
		{
			name:     "option key is lowercased",
			input:    " FOO = BAR",
			expected: Line{Kind: KindOption, Key: "foo", Value: "BAR"},
		},
		{
			name:     "dotted key",
			input:    "foo.bar=32",
			expected: Line{Kind: KindOption, Key: "foo.bar", Value: "32"},
		},
		{
			name:     "host-specific key",
			input:    "ROOT@test1.example.com:/mnt-us",
			expected: Line{Kind: KindOption, Key: "root@test1.example.com", Value: "/mnt-us"},
		},
		{
			name:     "double quoted value",
			input:    `password = "s3cret word"`,
			expected: Line{Kind: KindOption, Key: "password", Value: "s3cret word"},
		},
		{
			name:     "single quoted value",
			input:    `name='x'`,
			expected: Line{Kind: KindOption, Key: "name", Value: "x"},
		},
		{
			name:     "mismatched quotes are kept",
			input:    `name='x"`,
			expected: Line{Kind: KindOption, Key: "name", Value: `'x"`},
		},
		{
			name:     "empty value",
			input:    "empty =",
			expected: Line{Kind: KindOption, Key: "empty", Value: ""},
		},
		{
			name:     "key similar to include",
			input:    "include_dir = /opt",
			expected: Line{Kind: KindOption, Key: "include_dir", Value: "/opt"},
		},
		{
			name:     "semicolon comment",
			input:    "; foo = bar",
			expected: Line{Kind: KindOther},
		},
		{
			name:     "hash comment",
			input:    "# foo = bar",
			expected: Line{Kind: KindOther},
		},
		{
			name:     "no separator",
			input:    "foo bar",
			expected: Line{Kind: KindOther},
		},
		{
			name:     "blank",
			input:    "",
			expected: Line{Kind: KindOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected.Text = tt.input
			result := Classify(tt.input)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_CaseInsensitiveKeys(t *testing.T) {
	if Classify("foo=bar").Key != Classify("FOO=BAR").Key {
		t.Error("expected keys to compare equal regardless of case")
	}
}

func TestLine_Render(t *testing.T) {
	option := Classify("color = red")
	include := Classify("INCLUDE = base.ini ; shared")

	tests := []struct {
		name     string
		line     Line
		expected string
	}{
		{name: "plain", line: option, expected: "color = red"},
		{name: "shadowed", line: option.Shadowed(), expected: "; [SHADOWED] color = red"},
		{name: "directive keeps trailing comment", line: include.directive(), expected: "; INCLUDE = base.ini ; shared"},
		{name: "begin marker", line: marker(MarkBegin, "/etc/base.ini"), expected: "; begin include from /etc/base.ini"},
		{name: "end marker", line: marker(MarkEnd, "/etc/base.ini"), expected: "; end include from /etc/base.ini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Render(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if option.Shadowed().IsOption() {
		t.Error("expected a shadowed option to be inert")
	}
	if !option.IsOption() {
		t.Error("expected the original line to stay an option")
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []rawLine
	}{
		{
			name:     "unix",
			input:    "a\nb\n",
			expected: []rawLine{{text: "a", eol: "\n"}, {text: "b", eol: "\n"}},
		},
		{
			name:     "windows",
			input:    "a\r\nb\r\n",
			expected: []rawLine{{text: "a", eol: "\r\n"}, {text: "b", eol: "\r\n"}},
		},
		{
			name:     "unterminated last line",
			input:    "a\nb",
			expected: []rawLine{{text: "a", eol: "\n"}, {text: "b"}},
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines([]byte(tt.input))
			if diff := cmp.Diff(tt.expected, result, cmp.AllowUnexported(rawLine{})); diff != "" {
				t.Errorf("splitLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
