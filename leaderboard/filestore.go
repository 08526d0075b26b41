package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps the leaderboard in a JSON file.
type FileStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first submission.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (fs *FileStore) Path() string {
	return fs.path
}

// Submit validates s, records it and rewrites the file.
func (fs *FileStore) Submit(ctx context.Context, s Submission) (Entry, error) {
	s, err := Validate(s)
	if err != nil {
		return Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := fs.load()
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:        uuid.NewString(),
		Name:      s.Name,
		Score:     s.Score,
		Mode:      s.Mode,
		CreatedAt: fs.now().UTC(),
	}
	entries = Rank(append(entries, entry))
	if err := fs.save(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Top returns up to limit entries, best first.
func (fs *FileStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries, err := fs.load()
	if err != nil {
		return nil, err
	}
	entries = Rank(entries)
	if limit = clampLimit(limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (fs *FileStore) load() ([]Entry, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse leaderboard %s: %w", fs.path, err)
	}
	return entries, nil
}

func (fs *FileStore) save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}
