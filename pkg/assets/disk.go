package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DiskStore stores shim modules on the local filesystem, the default for
// local development (SPEC_FULL.md §C). Adapted from the teacher's
// pkg/upload.DiskStore, trading its temp-file generateTempID()+Claim-once
// model for name-addressed Put/Get/Delete/List.
type DiskStore struct {
	dir string

	mu    sync.RWMutex
	names map[string]string // module name -> on-disk file name (sha256 hex)
}

type diskMeta struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	ModTime     time.Time `json:"mod_time"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if necessary.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &DiskStore{dir: dir, names: make(map[string]string)}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func fileKey(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

func (s *DiskStore) contentPath(key string) string { return filepath.Join(s.dir, key) }
func (s *DiskStore) metaPath(key string) string    { return filepath.Join(s.dir, key+".meta") }

func (s *DiskStore) loadIndex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".meta") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var meta diskMeta
		if json.Unmarshal(data, &meta) != nil {
			continue
		}
		s.names[meta.Name] = strings.TrimSuffix(e.Name(), ".meta")
	}
	return nil
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, name string, contentType string, content []byte) error {
	key := fileKey(name)
	meta := diskMeta{Name: name, ContentType: contentType, ModTime: time.Now()}

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.contentPath(key), content, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(s.metaPath(key), data, 0o644); err != nil {
		return err
	}

	s.mu.Lock()
	s.names[name] = key
	s.mu.Unlock()
	return nil
}

// Get implements Store.
func (s *DiskStore) Get(ctx context.Context, name string) (*Module, error) {
	s.mu.RLock()
	key, ok := s.names[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	metaData, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		return nil, ErrNotFound
	}
	var meta diskMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.contentPath(key))
	if err != nil {
		return nil, ErrNotFound
	}

	return &Module{
		Name:        meta.Name,
		ContentType: meta.ContentType,
		Content:     content,
		ModTime:     meta.ModTime,
	}, nil
}

// Delete implements Store.
func (s *DiskStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	key, ok := s.names[name]
	if ok {
		delete(s.names, name)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	os.Remove(s.contentPath(key))
	os.Remove(s.metaPath(key))
	return nil
}

// List implements Store.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
