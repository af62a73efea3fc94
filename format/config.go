package format

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PrettyConfig configures the glyphs a pretty-printing Sink uses: which
// characters stand in for a tab, a space run, and a newline, plus the
// indent width — together a small "Prettyfier" knob set, loaded from
// YAML so a project can pin its own house style.
type PrettyConfig struct {
	Tab     string `yaml:"tab"`
	Space   string `yaml:"space"`
	Newline string `yaml:"newline"`
	Indent  int    `yaml:"indent_size"`
}

// DefaultPrettyConfig matches what every example TOML/DSV writer in the
// wild produces: a real tab character, a single space, Unix newlines.
func DefaultPrettyConfig() *PrettyConfig {
	return &PrettyConfig{Tab: "\t", Space: " ", Newline: "\n", Indent: 2}
}

// MinifyConfig configures a minifying Sink: whether to retain comments
// it would otherwise drop, and a cap on emitted lines (0 = unlimited).
type MinifyConfig struct {
	RetainComments bool `yaml:"retain_comments"`
	MaxNumOfLines  int  `yaml:"max_num_of_lines"`
}

// DefaultMinifyConfig drops comments and has no line cap.
func DefaultMinifyConfig() *MinifyConfig {
	return &MinifyConfig{RetainComments: false, MaxNumOfLines: 0}
}

// LoadPrettyfier loads a PrettyConfig from a YAML file under a top-level
// `pretty:` key, the way internal/format/config.go's LoadConfig loads
// under `format:`. A missing file yields the defaults rather than an
// error — a prettyfier profile is optional ambient configuration, not a
// required input.
func LoadPrettyfier(path string) (*PrettyConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultPrettyConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Pretty PrettyConfig `yaml:"pretty"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	cfg := &wrapper.Pretty
	if cfg.Tab == "" {
		cfg.Tab = "\t"
	}
	if cfg.Space == "" {
		cfg.Space = " "
	}
	if cfg.Newline == "" {
		cfg.Newline = "\n"
	}
	if cfg.Indent == 0 {
		cfg.Indent = 2
	}
	return cfg, nil
}
