package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexCommand(t *testing.T) {
	t.Run("has correct usage", func(t *testing.T) {
		assert.Equal(t, "lex <file>", lexCmd.Use)
		assert.NotEmpty(t, lexCmd.Short)
		assert.NotEmpty(t, lexCmd.Long)
	})

	t.Run("has format and json flags", func(t *testing.T) {
		formatFlag := lexCmd.Flags().Lookup("format")
		require.NotNil(t, formatFlag)
		assert.Equal(t, "dsv", formatFlag.DefValue)

		jsonFlag := lexCmd.Flags().Lookup("json")
		require.NotNil(t, jsonFlag)
		assert.Equal(t, "false", jsonFlag.DefValue)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		require.NotNil(t, lexCmd.Args)
		assert.Error(t, lexCmd.Args(lexCmd, nil))
		assert.NoError(t, lexCmd.Args(lexCmd, []string{"one.csv"}))
		assert.Error(t, lexCmd.Args(lexCmd, []string{"one.csv", "two.csv"}))
	})
}

func TestBuildMillForFormat(t *testing.T) {
	t.Run("dsv default", func(t *testing.T) {
		m, err := buildMillForFormat("dsv", "")
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("toml default", func(t *testing.T) {
		m, err := buildMillForFormat("toml", "")
		require.NoError(t, err)
		require.NotNil(t, m)
	})

	t.Run("unknown format errors", func(t *testing.T) {
		_, err := buildMillForFormat("xml", "")
		assert.Error(t, err)
	})
}

func TestLexDSVTokenStream(t *testing.T) {
	m, err := buildMillForFormat("dsv", "")
	require.NoError(t, err)

	m.Process([]byte("a,b\n1,2\n"))
	m.End()
	toks := m.Processed()
	require.NotEmpty(t, toks)

	var values []string
	for _, tok := range toks {
		values = append(values, tok.Value)
	}
	assert.Contains(t, values, "a")
	assert.Contains(t, values, ",")
}

func TestBuildMillForFormatWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "textmill.yml")
	require.NoError(t, os.WriteFile(path, []byte("dsv:\n  delimiter: \";\"\n"), 0644))

	m, err := buildMillForFormat("dsv", path)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.Process([]byte("a;b\n"))
	m.End()
	toks := m.Processed()
	var sawSemicolon bool
	for _, tok := range toks {
		if tok.Value == ";" {
			sawSemicolon = true
		}
	}
	assert.True(t, sawSemicolon, "expected the configured ';' delimiter to be tokenized as SEPARATOR")
}
