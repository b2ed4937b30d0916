package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 5, 9, 7, 1, 4000, time.UTC)
	assert.Equal(t, "request_42_20240305_090701.000004.pdf", FileName(42, ts))

	// same instant in another zone yields the same name
	warsaw := time.FixedZone("CET", 3600)
	assert.Equal(t, FileName(42, ts), FileName(42, ts.In(warsaw)))
}

func TestFileNameOrdering(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 59, 59, 999999000, time.UTC)
	earlier := FileName(7, base)
	later := FileName(7, base.Add(time.Microsecond))
	assert.Less(t, earlier, later)
}

func TestFileStore_PutAndLatest(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "out"))

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.Put(ctx, FileName(4, base), []byte("first"))
	require.NoError(t, err)
	assert.FileExists(t, first)

	_, err = store.Put(ctx, FileName(4, base.Add(time.Second)), []byte("second"))
	require.NoError(t, err)

	// a different record whose id shares the leading digit
	_, err = store.Put(ctx, FileName(42, base.Add(time.Hour)), []byte("other"))
	require.NoError(t, err)

	list, err := store.List(ctx, 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, FileName(4, base), list[0].Name)

	latest, err := Latest(ctx, store, 4)
	require.NoError(t, err)
	assert.Equal(t, FileName(4, base.Add(time.Second)), latest.Name)
	assert.EqualValues(t, len("second"), latest.Size)

	rc, err := store.Open(ctx, latest)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileStore_PutRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	name := FileName(1, time.Now())

	_, err := store.Put(ctx, name, []byte("a"))
	require.NoError(t, err)

	_, err = store.Put(ctx, name, []byte("b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestFileStore_LatestNone(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T) *FileStore
	}{
		{
			name: "missing directory",
			setup: func(t *testing.T) *FileStore {
				return NewFileStore(filepath.Join(t.TempDir(), "never-created"))
			},
		},
		{
			name: "unrelated files only",
			setup: func(t *testing.T) *FileStore {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "request_9_x.txt"), nil, 0o644))
				require.NoError(t, os.Mkdir(filepath.Join(dir, "request_9_dir.pdf"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "request_90_20240101_000000.000000.pdf"), nil, 0o644))
				return NewFileStore(dir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Latest(ctx, tt.setup(t), 9)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStore_OpenMissing(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Open(context.Background(), Artifact{Name: "request_1_gone.pdf"})
	assert.ErrorIs(t, err, ErrNotFound)
}
