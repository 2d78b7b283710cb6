package exceptions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bastiangx/wordcheck/internal/utils"
)

// UserDict is the JSON user dictionary file: {"words": ["foxx", ...]}.
type UserDict struct {
	Words []string `json:"words"`
}

// ParseUserDict decodes a user dictionary into a new Set.
func ParseUserDict(data []byte) (*Set, error) {
	var d UserDict
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse user dictionary: %w", err)
	}
	return New(d.Words...), nil
}

// LoadUserDict reads a user dictionary file.
func LoadUserDict(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read user dictionary: %w", err)
	}
	return ParseUserDict(data)
}

// SaveUserDict writes the sorted contents of s to path, replacing it atomically.
func SaveUserDict(path string, s *Set) error {
	data, err := json.MarshalIndent(UserDict{Words: s.Words()}, "", "  ")
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, append(data, '\n'))
}

// FileBackend persists exceptions in a JSON user dictionary file.
// A missing file reads as empty.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Members(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.load()
	if err != nil {
		return nil, err
	}
	return s.Words(), nil
}

func (b *FileBackend) Add(ctx context.Context, words ...string) error {
	return b.update(func(s *Set) { s.Add(words...) })
}

func (b *FileBackend) Remove(ctx context.Context, words ...string) error {
	return b.update(func(s *Set) { s.Remove(words...) })
}

func (b *FileBackend) update(fn func(*Set)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.load()
	if err != nil {
		return err
	}
	fn(s)
	return SaveUserDict(b.path, s)
}

func (b *FileBackend) load() (*Set, error) {
	if !utils.FileExists(b.path) {
		return New(), nil
	}
	return LoadUserDict(b.path)
}
