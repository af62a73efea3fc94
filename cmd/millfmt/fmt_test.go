package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtCommand(t *testing.T) {
	t.Run("has correct usage", func(t *testing.T) {
		assert.Equal(t, "fmt <file>", fmtCmd.Use)
		assert.NotEmpty(t, fmtCmd.Short)
		assert.NotEmpty(t, fmtCmd.Long)
	})

	t.Run("has format, minify, write flags", func(t *testing.T) {
		formatFlag := fmtCmd.Flags().Lookup("format")
		require.NotNil(t, formatFlag)
		assert.Equal(t, "dsv", formatFlag.DefValue)

		minifyFlag := fmtCmd.Flags().Lookup("minify")
		require.NotNil(t, minifyFlag)
		assert.Equal(t, "false", minifyFlag.DefValue)

		writeFlag := fmtCmd.Flags().Lookup("write")
		require.NotNil(t, writeFlag)
		assert.Equal(t, "false", writeFlag.DefValue)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		require.NotNil(t, fmtCmd.Args)
		assert.Error(t, fmtCmd.Args(fmtCmd, nil))
		assert.NoError(t, fmtCmd.Args(fmtCmd, []string{"one.csv"}))
	})
}

func TestFormatFileDSVRoundTrip(t *testing.T) {
	out, err := formatFile("dsv", "", []byte("a,b,c\n1,2,3\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "1")
}

func TestFormatFileTOMLRoundTrip(t *testing.T) {
	out, err := formatFile("toml", "", []byte("name = \"textmill\"\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "textmill")
}

func TestFormatFileUnknownFormat(t *testing.T) {
	_, err := formatFile("xml", "", []byte("irrelevant"))
	assert.Error(t, err)
}

func TestFmtCommandWritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))

	out, err := formatFile("dsv", "", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	fmtWrite = true
	defer func() { fmtWrite = false }()
	require.NoError(t, fmtCmd.RunE(fmtCmd, []string{path}))

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(rewritten))
}
