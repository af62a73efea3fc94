// Package millerr is the error taxonomy shared across mill, parser,
// dsv, toml and format: six concrete error types distinguished by which
// layer raised them, a common (line, position, cause) location contract,
// and JSON/terminal rendering. Each layer gets its own Go type so a
// caller can type-switch on the failing layer instead of string-comparing
// a phase field.
package millerr

import "fmt"

// Location pinpoints a single-point or span failure in source text.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Length int `json:"length"`
}

// Context carries source lines around a Location for terminal/JSON
// rendering.
type Context struct {
	SourceLines []string  `json:"source_lines"`
	Highlight   Highlight `json:"highlight"`
}

// Highlight marks which part of Context.SourceLines to underline.
type Highlight struct {
	Line  int `json:"line"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// FixSuggestion is an optional auto-fix attached to an error.
type FixSuggestion struct {
	Description string  `json:"description"`
	OldText     string  `json:"old_text"`
	NewText     string  `json:"new_text"`
	Confidence  float64 `json:"confidence"`
}

// base holds the fields every concrete error type shares. It is not
// exported: callers interact with the six named types below so that a
// type switch tells them which layer failed.
type base struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Loc        Location       `json:"location"`
	Sev        Severity       `json:"severity"`
	Ctx        Context        `json:"context"`
	Suggestion *FixSuggestion `json:"suggestion,omitempty"`
	Cause      error          `json:"-"`
}

func newBase(code, message string, loc Location) base {
	return base{Code: code, Message: message, Loc: loc, Sev: Error}
}

func (b base) Error() string {
	if b.Cause != nil {
		return fmt.Sprintf("%d:%d: %s: %s: %v", b.Loc.Line, b.Loc.Column, b.Code, b.Message, b.Cause)
	}
	return fmt.Sprintf("%d:%d: %s: %s", b.Loc.Line, b.Loc.Column, b.Code, b.Message)
}

func (b base) Unwrap() error { return b.Cause }

// Location returns where the error occurred.
func (b base) Location() Location { return b.Loc }

// Severity returns the error's severity.
func (b base) Severity() Severity { return b.Sev }

// ErrCode returns the E-series code (methods, not the exported Code
// field, are what the errorLike-adjacent helpers in json.go/terminal.go
// consult, so renaming or reshaping the field never touches call sites).
func (b base) ErrCode() string { return b.Code }

// TokenError is raised by mill: a lexical failure such as an escape
// sequence whose radix digits ended before the minimum digit count, or a
// quote channel that never saw its closer before end of input. Per spec
// §4.2, the mill itself never panics on these — it always emits a token
// sequence, and a TokenError is only constructed by a caller (the parser,
// or a format's own validation) inspecting that sequence.
type TokenError struct{ base }

// NewTokenError builds a TokenError.
func NewTokenError(code, message string, loc Location) TokenError {
	return TokenError{newBase(code, message, loc)}
}

// ParseError is raised by parser.Parser: ERR_UNEXPECTED when a popped
// token's type has no Prefix command, ERR_EXPECT_MISMATCH when Consume
// sees the wrong type, ERR_UNEXPECTED_EOF when the token stream runs out
// mid-production.
type ParseError struct{ base }

// NewParseError builds a ParseError.
func NewParseError(code, message string, loc Location) ParseError {
	return ParseError{newBase(code, message, loc)}
}

// SyntaxError is the error kind for an invalid Syntax configuration (a
// delimiter of zero length, a quote pair missing its closer, an escape
// encoding with MinDigits > MaxDigits). Nothing in this module constructs
// one: config.LoadSyntax reports its failures as plain wrapped errors.
type SyntaxError struct{ base }

// NewSyntaxError builds a SyntaxError.
func NewSyntaxError(code, message string, loc Location) SyntaxError {
	return SyntaxError{newBase(code, message, loc)}
}

// ExpressionError is raised by a dsv/toml expression operation whose
// precondition the spec states explicitly: an out-of-range CellIndex, a
// row-symmetry violation, a malformed nested-key projection.
type ExpressionError struct{ base }

// NewExpressionError builds an ExpressionError.
func NewExpressionError(code, message string, loc Location) ExpressionError {
	return ExpressionError{newBase(code, message, loc)}
}

// DataError is the generic base error kind. Nothing in this module
// constructs one; the TOML scalar constructors return no error.
type DataError struct{ base }

// NewDataError builds a DataError.
func NewDataError(code, message string, loc Location) DataError {
	return DataError{newBase(code, message, loc)}
}

// FormatError is raised by a format.Sink when asked to append a node
// outside its declared target value set — the one case the sink contract
// allows it to fail.
type FormatError struct{ base }

// NewFormatError builds a FormatError.
func NewFormatError(code, message string, loc Location) FormatError {
	return FormatError{newBase(code, message, loc)}
}

// WithContext attaches surrounding source lines, returning a copy.
func (e TokenError) WithContext(c Context) TokenError { e.Ctx = c; return e }
func (e ParseError) WithContext(c Context) ParseError { e.Ctx = c; return e }
func (e SyntaxError) WithContext(c Context) SyntaxError { e.Ctx = c; return e }
func (e ExpressionError) WithContext(c Context) ExpressionError { e.Ctx = c; return e }
func (e DataError) WithContext(c Context) DataError { e.Ctx = c; return e }
func (e FormatError) WithContext(c Context) FormatError { e.Ctx = c; return e }

// WithCause chains an underlying error, returning a copy.
func (e TokenError) WithCause(cause error) TokenError { e.Cause = cause; return e }
func (e ParseError) WithCause(cause error) ParseError { e.Cause = cause; return e }
func (e SyntaxError) WithCause(cause error) SyntaxError { e.Cause = cause; return e }
func (e ExpressionError) WithCause(cause error) ExpressionError { e.Cause = cause; return e }
func (e DataError) WithCause(cause error) DataError { e.Cause = cause; return e }
func (e FormatError) WithCause(cause error) FormatError { e.Cause = cause; return e }

// WithSuggestion attaches a fix suggestion, returning a copy.
func (e TokenError) WithSuggestion(s FixSuggestion) TokenError { e.Suggestion = &s; return e }
func (e ParseError) WithSuggestion(s FixSuggestion) ParseError { e.Suggestion = &s; return e }
func (e SyntaxError) WithSuggestion(s FixSuggestion) SyntaxError { e.Suggestion = &s; return e }
func (e ExpressionError) WithSuggestion(s FixSuggestion) ExpressionError { e.Suggestion = &s; return e }
func (e DataError) WithSuggestion(s FixSuggestion) DataError { e.Suggestion = &s; return e }
func (e FormatError) WithSuggestion(s FixSuggestion) FormatError { e.Suggestion = &s; return e }
