package hostlock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_SucceedsOnFreshDBPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corehub.db")

	g, err := Acquire(dbPath)
	require.NoError(t, err)
	require.NotNil(t, g)
	defer g.Release()

	assert.FileExists(t, dbPath+".lock")
}

func TestAcquire_SecondInstanceRefused(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corehub.db")

	first, err := Acquire(dbPath)
	require.NoError(t, err)
	defer first.Release()

	_, err = Acquire(dbPath)
	assert.Error(t, err)
}

func TestRelease_AllowsReacquisition(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corehub.db")

	first, err := Acquire(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Acquire(dbPath)
	require.NoError(t, err)
	defer second.Release()
}

func TestRelease_NilGuardIsNoop(t *testing.T) {
	var g *Guard
	assert.NoError(t, g.Release())
}
