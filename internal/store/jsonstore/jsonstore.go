package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// One process owns the file; the mutex serializes its handlers.

// file is the on-disk layout.
type file struct {
	NextID int64        `json:"nextID"`
	Items  []model.Item `json:"items"`
}

// Store keeps items in one JSON file and rewrites it on every change.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ store.Store = (*Store)(nil)

// Open returns a store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonstore: empty path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	s := &Store{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() (file, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file{NextID: 1, Items: []model.Item{}}, nil
		}
		return file{}, fmt.Errorf("read file: %w", err)
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return file{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if f.Items == nil {
		f.Items = []model.Item{}
	}
	for _, it := range f.Items {
		if it.ItemID >= f.NextID {
			f.NextID = it.ItemID + 1
		}
	}
	if f.NextID < 1 {
		f.NextID = 1
	}
	return f, nil
}

func (s *Store) save(f file) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Items, nil
}

func (s *Store) Create(ctx context.Context, it model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	it.ItemID = f.NextID
	f.NextID++
	f.Items = append(f.Items, it)
	if err := s.save(f); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Get(ctx context.Context, id int64) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(f.Items, id)
	if i < 0 {
		return model.Item{}, store.ErrNotFound
	}
	return f.Items[i], nil
}

// Update copies name, due date and importance; the id never changes.
func (s *Store) Update(ctx context.Context, id int64, it model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(f.Items, id)
	if i < 0 {
		return model.Item{}, store.ErrNotFound
	}
	it.ItemID = id
	f.Items[i] = it
	if err := s.save(f); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(f.Items, id)
	if i < 0 {
		return store.ErrNotFound
	}
	f.Items = append(f.Items[:i], f.Items[i+1:]...)
	return s.save(f)
}

func (s *Store) Close() error { return nil }

func indexOf(items []model.Item, id int64) int {
	for i, it := range items {
		if it.ItemID == id {
			return i
		}
	}
	return -1
}
