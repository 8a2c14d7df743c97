package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileReturnsUnchanged(t *testing.T) {
	b := DefaultBootstrap()
	out, err := b.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, b, out)
}

func TestLoadFile_EmptyPathIsNoop(t *testing.T) {
	b := DefaultBootstrap()
	out, err := b.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, b, out)
}

func TestLoadFile_MergesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: 0.0.0.0:9999\nblockSeconds: 1800\n"), 0o644))

	b := DefaultBootstrap()
	out, err := b.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", out.ListenAddr)
	assert.Equal(t, 1800, out.BlockSeconds)
	assert.Equal(t, b.DBPath, out.DBPath) // untouched field carries over
}

func TestLoadFile_MalformedYAMLIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid yaml"), 0o644))

	b := DefaultBootstrap()
	_, err := b.LoadFile(path)
	assert.Error(t, err)
}

func TestLoadEnv_OverridesBootstrapFields(t *testing.T) {
	t.Setenv("COREHUB_LISTEN", "localhost:8080")
	t.Setenv("COREHUB_DB", "/tmp/other.db")

	b := DefaultBootstrap()
	out := b.LoadEnv()
	assert.Equal(t, "localhost:8080", out.ListenAddr)
	assert.Equal(t, "/tmp/other.db", out.DBPath)
}

func TestNormalizeListenAddr(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "localhost:17600"},
		{"localhost", "localhost:17600"},
		{"localhost:9000", "localhost:9000"},
		{"0.0.0.0", "0.0.0.0:17600"},
		{"0.0.0.0:8080", "0.0.0.0:8080"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeListenAddr(tc.in), "input %q", tc.in)
	}
}
