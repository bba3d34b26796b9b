package archive

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStoreWritesTimestampedSnapshot(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir, true, newTestLogger())
	require.NoError(t, err)

	raw := []byte("<ndm></ndm>")
	path, err := a.Store("celestrak", raw)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "celestrak_"))
	assert.True(t, strings.HasSuffix(name, ".xml"))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), fileDate(name))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	_, err := New(dir, false, newTestLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCompressOldGzipsEarlierDays(t *testing.T) {
	dir := t.TempDir()
	a, err := New(dir, true, newTestLogger())
	require.NoError(t, err)

	old := filepath.Join(dir, "spacetrack_2020-01-01T000000.xml")
	content := []byte("<ndm><omm/></ndm>")
	require.NoError(t, os.WriteFile(old, content, 0644))

	today, err := a.Store("spacetrack", []byte("<ndm></ndm>"))
	require.NoError(t, err)

	a.CompressOld()

	// The old snapshot is replaced by its gzip, today's is untouched.
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(today)
	assert.NoError(t, err)

	gz, err := os.Open(old + ".gz")
	require.NoError(t, err)
	defer gz.Close()
	zr, err := gzip.NewReader(gz)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFileDate(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"celestrak_2026-08-31T061244.xml", "2026-08-31"},
		{"space_track_2026-08-31T061244.xml", "2026-08-31"},
		{"nounderscore.xml", ""},
		{"short_x.xml", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fileDate(tt.name))
	}
}
