package gate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/ghost-replay/internal/codec"
	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/rcliao/ghost-replay/internal/store"
)

func newTestGate(t *testing.T) (*Gate, store.BlobStore) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "ghostrecordings"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func run(id string, total float64, n int) model.Trajectory {
	b := model.NewBuilder(id, model.DefaultPrecision)
	for i := 0; i < n; i++ {
		f := float64(i)
		b.Append(model.Sample{
			Position: model.Vec3{X: f * 1.1, Y: 0.5, Z: -f},
			Rotation: model.Quat{W: 1},
			Scale:    model.Vec3{X: 1, Y: 1, Z: 1},
		}, 0)
	}
	tr := b.Build()
	tr.TotalTime = total
	return tr
}

func TestMonotonicGate(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(t)

	t1 := run("k", 10.0, 3)
	ok, err := g.TrySave(ctx, t1)
	require.NoError(t, err)
	assert.True(t, ok, "fresh key should accept")

	t2 := run("k", 12.0, 5)
	ok, err = g.TrySave(ctx, t2)
	require.NoError(t, err)
	assert.False(t, ok, "slower run should be rejected")

	got, found, err := g.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	if diff := cmp.Diff(t1, got); diff != "" {
		t.Errorf("stored recording changed (-want +got):\n%s", diff)
	}

	t3 := run("k", 9.5, 4)
	ok, err = g.TrySave(ctx, t3)
	require.NoError(t, err)
	assert.True(t, ok, "faster run should be accepted")

	got, found, err = g.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	if diff := cmp.Diff(t3, got); diff != "" {
		t.Errorf("expected faster recording (-want +got):\n%s", diff)
	}
}

func TestTieKeepsExisting(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(t)

	first := run("k", 7.25, 2)
	ok, err := g.TrySave(ctx, first)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.TrySave(ctx, run("k", 7.25, 9))
	require.NoError(t, err)
	assert.False(t, ok)

	got, _, err := g.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestLoadAbsent(t *testing.T) {
	g, _ := newTestGate(t)

	_, ok, err := g.Load(context.Background(), "nonexistent-key")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadCorruptPropagatesFormatError(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)
	require.NoError(t, s.Write(ctx, "bad", []byte("bad:1;1:2:3/0:0:0:1/1:1;")))

	_, ok, err := g.Load(ctx, "bad")
	assert.False(t, ok)
	var fe *codec.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestPeekStoredTime(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	_, ok := g.PeekStoredTime(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, "k", []byte("k:3.5;")))
	total, ok := g.PeekStoredTime(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 3.5, total)

	// Samples are not decoded, so a bad sample does not hide the time.
	require.NoError(t, s.Write(ctx, "k", []byte("k:3.25;garbage;")))
	total, ok = g.PeekStoredTime(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 3.25, total)

	for _, corrupt := range []string{"", "k:fast;", "k3.5;", "k:NaN;", "k:3.5", "k:-5;", "k:-Inf;", "k:+Inf;"} {
		require.NoError(t, s.Write(ctx, "k", []byte(corrupt)))
		_, ok = g.PeekStoredTime(ctx, "k")
		assert.False(t, ok, "expected absent for %q", corrupt)
	}
}

func TestInvalidStoredTimeDoesNotBlockSaves(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	for _, stored := range []string{"k:-5;", "k:-Inf;", "k:NaN;"} {
		require.NoError(t, s.Write(ctx, "k", []byte(stored)))
		ok, err := g.TrySave(ctx, run("k", 0, 1))
		require.NoError(t, err)
		assert.True(t, ok, "stored %q should not block a save", stored)
	}
}

func TestStoredIDMismatchIsLogged(t *testing.T) {
	ctx := context.Background()
	_, s := newTestGate(t)
	var logs bytes.Buffer
	g := New(s, slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	require.NoError(t, s.Write(ctx, "k", []byte("other:2;")))
	total, ok := g.PeekStoredTime(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, 2.0, total)
	assert.Contains(t, logs.String(), "stored id differs from key")
	assert.Contains(t, logs.String(), "id=other")

	logs.Reset()
	require.NoError(t, s.Write(ctx, "k", []byte("k:2;")))
	g.PeekStoredTime(ctx, "k")
	assert.NotContains(t, logs.String(), "stored id differs")
}

func TestKeysAreValidated(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	dir := s.(*store.FileStore).Dir()
	outside := filepath.Join(filepath.Dir(dir), "x"+store.FileExt)
	require.NoError(t, os.WriteFile(outside, []byte(codec.Encode(run("x", 1, 1))), 0o644))

	for _, key := range []string{"../x", "a/b", "", "a:b"} {
		_, found, err := g.Load(ctx, key)
		assert.False(t, found, "Load(%q)", key)
		assert.ErrorIs(t, err, codec.ErrInvalidID, "Load(%q)", key)

		assert.ErrorIs(t, g.Remove(ctx, key), codec.ErrInvalidID, "Remove(%q)", key)

		_, ok := g.PeekStoredTime(ctx, key)
		assert.False(t, ok, "PeekStoredTime(%q)", key)
	}

	_, err := os.Stat(outside)
	assert.NoError(t, err, "file outside the store must survive")
}

func TestCorruptStoredIsOverwritten(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)
	require.NoError(t, s.Write(ctx, "k", []byte("not a recording")))

	ok, err := g.TrySave(ctx, run("k", 100, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := g.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 100.0, got.TotalTime)
}

func TestTrySaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	for _, id := range []string{"", "a:b", "a/b", "a;b"} {
		ok, err := g.TrySave(ctx, run(id, 1, 1))
		assert.False(t, ok)
		assert.ErrorIs(t, err, codec.ErrInvalidID, "id %q", id)
	}

	ok, err := g.TrySave(ctx, run("k", -1, 1))
	assert.False(t, ok)
	assert.ErrorIs(t, err, model.ErrInvalidTime)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestEmptyTrajectorySaves(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	ok, err := g.TrySave(ctx, model.Trajectory{ID: "empty", TotalTime: 2})
	require.NoError(t, err)
	require.True(t, ok)

	data, err := s.Read(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "empty:2;", string(data))

	got, found, err := g.Load(ctx, "empty")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, got.Samples)
}

// failingStore wraps a BlobStore and fails every Write.
type failingStore struct {
	store.BlobStore
	writes int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Write(ctx context.Context, key string, data []byte) error {
	f.writes++
	return errDiskFull
}

func TestWriteErrorPropagatesAndKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	_, s := newTestGate(t)
	require.NoError(t, s.Write(ctx, "k", []byte(codec.Encode(run("k", 10, 2)))))

	fs := &failingStore{BlobStore: s}
	g := New(fs, nil)

	ok, err := g.TrySave(ctx, run("k", 5, 3))
	assert.False(t, ok)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 1, fs.writes)

	got, found, err := g.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 10.0, got.TotalTime)
}

// readErrStore fails every Open and Read with a non-NotFound error.
type readErrStore struct {
	store.BlobStore
}

var errPermission = errors.New("permission denied")

func (r readErrStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errPermission
}

func (r readErrStore) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, errPermission
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()
	_, s := newTestGate(t)
	g := New(readErrStore{BlobStore: s}, nil)

	// Peek downgrades, so the save goes through.
	ok, err := g.TrySave(ctx, run("k", 3, 1))
	require.NoError(t, err)
	assert.True(t, ok)

	// Load reports the I/O error precisely.
	_, found, err := g.Load(ctx, "k")
	assert.False(t, found)
	assert.ErrorIs(t, err, errPermission)
}

func TestBest(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	g.TrySave(ctx, run("a", 4.5, 1))
	g.TrySave(ctx, run("b", 2, 1))
	require.NoError(t, s.Write(ctx, "c", []byte("junk")))

	entries, err := g.Best(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "a", Time: 4.5},
		{Key: "b", Time: 2},
		{Key: "c", Corrupt: true},
	}, entries)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(t)

	g.TrySave(ctx, run("k", 4, 1))
	require.NoError(t, g.Remove(ctx, "k"))

	_, ok := g.PeekStoredTime(ctx, "k")
	assert.False(t, ok)
	assert.ErrorIs(t, g.Remove(ctx, "k"), store.ErrNotFound)
}

func TestSavedBytesAreCanonical(t *testing.T) {
	ctx := context.Background()
	g, s := newTestGate(t)

	tr := run("k", 1.5, 2)
	_, err := g.TrySave(ctx, tr)
	require.NoError(t, err)

	data, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte(codec.Encode(tr)), data))
}
