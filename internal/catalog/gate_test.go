package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileGate_MissingFileMeansNeverRan(t *testing.T) {
	gate := NewFileGate(filepath.Join(t.TempDir(), "last-run"))

	last, err := gate.LastRunAt()
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	ok, err := ShouldRun(gate, 12*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileGate_MarkRanRoundTrip(t *testing.T) {
	gate := NewFileGate(filepath.Join(t.TempDir(), "last-run"))

	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	require.NoError(t, gate.MarkRan(now))

	last, err := gate.LastRunAt()
	require.NoError(t, err)
	assert.True(t, last.Equal(now))
}

func TestFileGate_MalformedFileMeansNeverRan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-run")
	require.NoError(t, os.WriteFile(path, []byte("yesterday-ish\n"), 0o644))

	last, err := NewFileGate(path).LastRunAt()
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}

func TestShouldRun(t *testing.T) {
	gate := NewFileGate(filepath.Join(t.TempDir(), "last-run"))

	t.Run("recent run blocks", func(t *testing.T) {
		require.NoError(t, gate.MarkRan(time.Now().Add(-1*time.Hour)))

		ok, err := ShouldRun(gate, 12*time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stale run allows", func(t *testing.T) {
		require.NoError(t, gate.MarkRan(time.Now().Add(-13*time.Hour)))

		ok, err := ShouldRun(gate, 12*time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
