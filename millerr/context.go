package millerr

import "strings"

// ExtractContext pulls three lines before and after loc.Line from source,
// plus a Highlight spanning loc's column and length.
func ExtractContext(loc Location, source string) Context {
	lines := strings.Split(source, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return Context{}
	}

	errLine := loc.Line - 1
	start := errLine - 3
	if start < 0 {
		start = 0
	}
	end := errLine + 4
	if end > len(lines) {
		end = len(lines)
	}

	ctxLines := append([]string(nil), lines[start:end]...)

	col := loc.Column - 1
	if col < 0 {
		col = 0
	}
	length := loc.Length
	if length == 0 {
		length = 1
	}

	return Context{
		SourceLines: ctxLines,
		Highlight: Highlight{
			Line:  errLine - start,
			Start: col,
			End:   col + length,
		},
	}
}

// Enrich attaches the source context ExtractContext builds for loc to any
// error type that has a WithContext method returning its own type.
func Enrich[E interface{ WithContext(Context) E }](e E, source string, loc Location) E {
	return e.WithContext(ExtractContext(loc, source))
}
