package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "encodekit.log")
	l := Init(Options{File: path, Debug: true})
	l.Debug("fold scored")
	_ = l.Sync()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"msg":"fold scored"`), string(b))
	require.Same(t, l, Logger())
}
