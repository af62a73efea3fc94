// Package config loads per-project channel syntax profiles: a
// viper-backed reader with defaults set before the file is read, so a
// missing profile still produces a working Syntax rather than an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/inkmill/textmill/dsv"
	"github.com/inkmill/textmill/toml"
)

// SyntaxProfile is the on-disk shape of a millfmt.yml/millfmt.json
// syntax profile: a `dsv:` section and a `toml:` section, each
// optional, each overriding only the fields it sets.
type SyntaxProfile struct {
	DSV  DSVProfile  `mapstructure:"dsv"`
	TOML TOMLProfile `mapstructure:"toml"`
}

// DSVProfile mirrors dsv.Syntax's scalar fields (Escapes/RawEscape/
// ParseHook are code-level extension points, not config-file knobs).
type DSVProfile struct {
	Delimiter  string   `mapstructure:"delimiter"`
	EOL        string   `mapstructure:"eol"`
	BOM        bool     `mapstructure:"bom"`
	Header     []string `mapstructure:"header"`
	QuoteOpen  string   `mapstructure:"quote_open"`
	QuoteClose string   `mapstructure:"quote_close"`
	Strict     bool     `mapstructure:"strict"`
	Symmetry   string   `mapstructure:"symmetry"` // "empty", "null", or "throw"
	Nop        string   `mapstructure:"nop"`       // single byte, "" = undefined
	Nap        string   `mapstructure:"nap"`       // single byte, "" = undefined
}

// TOMLProfile mirrors toml.Syntax's scalar fields.
type TOMLProfile struct {
	EOL    string `mapstructure:"eol"`
	BOM    bool   `mapstructure:"bom"`
	Global bool   `mapstructure:"global"`
	Snan   bool   `mapstructure:"snan"`
	Qnan   bool   `mapstructure:"qnan"`
}

// LoadSyntax reads path (any format viper supports — YAML, JSON, TOML
// itself) and returns the resulting dsv.Syntax and toml.Syntax,
// starting from each format's Default() and overriding only the fields
// the profile sets. A missing file yields both defaults unchanged.
func LoadSyntax(path string) (*dsv.Syntax, *toml.Syntax, error) {
	v := viper.New()

	v.SetDefault("dsv.delimiter", ",")
	v.SetDefault("dsv.eol", "\n")
	v.SetDefault("dsv.quote_open", `"`)
	v.SetDefault("dsv.quote_close", `"`)
	v.SetDefault("dsv.symmetry", "empty")
	v.SetDefault("toml.eol", "\n")
	v.SetDefault("toml.qnan", true)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("textmill: reading syntax profile: %w", err)
		}
	}

	var profile SyntaxProfile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, nil, fmt.Errorf("textmill: decoding syntax profile: %w", err)
	}

	dsynt := dsv.Default()
	applyDSV(dsynt, &profile.DSV)

	tsynt := toml.Default()
	applyTOML(tsynt, &profile.TOML)

	return dsynt, tsynt, nil
}

func applyDSV(s *dsv.Syntax, p *DSVProfile) {
	if p.Delimiter != "" {
		s.Delimiter = p.Delimiter
	}
	if p.EOL != "" {
		s.EOL = p.EOL
	}
	s.BOM = p.BOM
	if len(p.Header) > 0 {
		s.Header = p.Header
	}
	if p.QuoteOpen != "" {
		s.QuoteOpen = p.QuoteOpen
	}
	if p.QuoteClose != "" {
		s.QuoteClose = p.QuoteClose
	}
	s.Strict = p.Strict
	switch p.Symmetry {
	case "null":
		s.Symmetry = dsv.SymmetryNull
	case "throw":
		s.Symmetry = dsv.SymmetryThrow
	case "empty", "":
		s.Symmetry = dsv.SymmetryEmpty
	}
	if p.Nop != "" {
		s.Nop = p.Nop[0]
	}
	if p.Nap != "" {
		s.Nap = p.Nap[0]
	}
}

func applyTOML(s *toml.Syntax, p *TOMLProfile) {
	if p.EOL != "" {
		s.EOL = p.EOL
	}
	s.BOM = p.BOM
	s.Global = p.Global
	s.Snan = p.Snan
	s.Qnan = p.Qnan
}
