package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkmill/textmill/dsv"
)

func TestLoadSyntaxDefaultsWithNoFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "missing.yml")

	dsynt, tsynt, err := LoadSyntax(path)
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}
	if dsynt.Delimiter != "," {
		t.Errorf("expected default delimiter ',', got %q", dsynt.Delimiter)
	}
	if !tsynt.Qnan {
		t.Errorf("expected default Qnan=true")
	}
}

func TestLoadSyntaxOverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "millfmt.yml")
	content := `
dsv:
  delimiter: ";"
  symmetry: throw
toml:
  global: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}

	dsynt, tsynt, err := LoadSyntax(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dsynt.Delimiter != ";" {
		t.Errorf("expected delimiter ';', got %q", dsynt.Delimiter)
	}
	if dsynt.Symmetry != dsv.SymmetryThrow {
		t.Errorf("expected SymmetryThrow, got %v", dsynt.Symmetry)
	}
	if !tsynt.Global {
		t.Errorf("expected toml.global=true")
	}
	if dsynt.QuoteOpen != `"` {
		t.Errorf("expected unset quote_open to keep default, got %q", dsynt.QuoteOpen)
	}
}
