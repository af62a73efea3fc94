package format

import (
	"strings"

	"github.com/inkmill/textmill/millerr"
)

// StringSink accumulates rendered text directly, the backing store for
// serializing a Table or a TOML document to a single string (or a file,
// via its Data()'s io.Writer caller).
type StringSink struct {
	units  []string // one entry per top-level unit (row, line) for Reverse
	pretty *PrettyConfig
	minify *MinifyConfig
}

// NewPrettyStringSink returns a StringSink in pretty mode, falling back
// to DefaultPrettyConfig when cfg is nil.
func NewPrettyStringSink(cfg *PrettyConfig) *StringSink {
	if cfg == nil {
		cfg = DefaultPrettyConfig()
	}
	return &StringSink{pretty: cfg}
}

// NewMinifyStringSink returns a StringSink in minify mode, falling back
// to DefaultMinifyConfig when cfg is nil.
func NewMinifyStringSink(cfg *MinifyConfig) *StringSink {
	if cfg == nil {
		cfg = DefaultMinifyConfig()
	}
	return &StringSink{minify: cfg}
}

// Pretty reports whether this sink is in pretty mode.
func (s *StringSink) Pretty() bool { return s.pretty != nil }

// PrettyConfig returns the active pretty configuration, or nil in
// minify mode.
func (s *StringSink) PrettyConfig() *PrettyConfig { return s.pretty }

// MinifyConfig returns the active minify configuration, or nil in
// pretty mode.
func (s *StringSink) MinifyConfig() *MinifyConfig { return s.minify }

// Append renders value (an Expression, or a raw string literal) as one
// unit. Expressions format themselves via Format; any other value type
// is rejected with an ErrUnsupportedTarget FormatError, since every
// caller in this module only ever appends strings or Expressions.
func (s *StringSink) Append(value any, syntax any) error {
	switch v := value.(type) {
	case Expression:
		return v.Format(s, syntax)
	case string:
		if s.minify != nil && s.minify.MaxNumOfLines > 0 && len(s.units) >= s.minify.MaxNumOfLines {
			return nil
		}
		s.units = append(s.units, v)
		return nil
	default:
		return NewUnsupportedTarget("StringSink.Append: unsupported value type", millerr.Location{})
	}
}

// Reverse reverses the accumulated units in place.
func (s *StringSink) Reverse() {
	for i, j := 0, len(s.units)-1; i < j; i, j = i+1, j-1 {
		s.units[i], s.units[j] = s.units[j], s.units[i]
	}
}

// Equal compares the joined text of two sinks.
func (s *StringSink) Equal(other Sink) bool {
	o, ok := other.(*StringSink)
	if !ok {
		return false
	}
	return s.String() == o.String()
}

// Data returns the joined text.
func (s *StringSink) Data() any { return s.String() }

// String concatenates every unit with no separator — callers append
// their own separators/newlines as literal units, matching how
// internal/format/formatter.go's writeLine/writeIndent build output one
// piece at a time rather than via a single templated join.
func (s *StringSink) String() string {
	var b strings.Builder
	for _, u := range s.units {
		b.WriteString(u)
	}
	return b.String()
}
