package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// FileExt is appended to every key to form its file name.
const FileExt = ".ghost"

// FileStore implements BlobStore with one file per key in a directory.
type FileStore struct {
	dir string

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewFileStore opens or creates the recording directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	return &FileStore{
		dir:     dir,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Dir returns the recording directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// path maps key to its file. Keys must name a file directly inside the
// recording directory.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || !filepath.IsLocal(key+FileExt) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+FileExt), nil
}

func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return f, nil
}

// Write writes data to a temporary sibling and renames it over the target,
// so readers see either the old blob or the new one.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, "."+key+"."+s.newSuffix()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) newSuffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, FileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, FileExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Backend: "file", Location: s.dir}
	keys, err := s.Keys(ctx)
	if err != nil {
		return st, err
	}
	for _, k := range keys {
		if info, err := os.Stat(filepath.Join(s.dir, k+FileExt)); err == nil {
			st.Recordings++
			st.TotalBytes += info.Size()
		}
	}
	st.SizeBytes = st.TotalBytes
	return st, nil
}

func (s *FileStore) Close() error {
	return nil
}
