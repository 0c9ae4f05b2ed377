// Package history records the projects picked by shelf so that
// `shelf project last` can return to the most recent one.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
)

const maxEntries = 50

// Entry is one picked project.
type Entry struct {
	Path        string    `json:"path"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	AccessCount int       `json:"access_count"`
	LastAccess  time.Time `json:"last_access"`
}

// History holds entries, most recently accessed first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Path returns $XDG_STATE_HOME/shelf/history.json, falling back to
// $HOME/.local/state.
func Path(getenv func(string) string) (string, error) {
	if dir := getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "shelf", "history.json"), nil
	}
	home := getenv("HOME")
	if home == "" {
		return "", errors.New("neither XDG_STATE_HOME nor HOME is set")
	}
	return filepath.Join(home, ".local", "state", "shelf", "history.json"), nil
}

// Load reads the history at path. A missing file is an empty history.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, err
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("could not parse history at %s: %w", path, err)
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// FindByPath returns the entry for path, or nil.
func (h *History) FindByPath(path string) *Entry {
	for i := range h.Entries {
		if h.Entries[i].Path == path {
			return &h.Entries[i]
		}
	}
	return nil
}

// RemoveByPath deletes the entry for path and reports whether it existed.
func (h *History) RemoveByPath(path string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Path == path })
	return len(h.Entries) != n
}

// RemoveStale drops entries whose directory no longer exists and returns
// how many were removed.
func (h *History) RemoveStale() int {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool {
		_, err := os.Stat(e.Path)
		return err != nil
	})
	return n - len(h.Entries)
}

// touch moves e to the front, bumping its access count when already known.
func (h *History) touch(e Entry, now time.Time) {
	if old := h.FindByPath(e.Path); old != nil {
		e.AccessCount = old.AccessCount
		h.RemoveByPath(e.Path)
	}
	e.AccessCount++
	e.LastAccess = now
	h.Entries = slices.Insert(h.Entries, 0, e)
	if len(h.Entries) > maxEntries {
		h.Entries = h.Entries[:maxEntries]
	}
}

// Record adds e to the history at path. The read-modify-write cycle holds
// an exclusive lock on path+".lock".
func Record(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("could not lock history: %w", err)
	}
	defer lock.Unlock()

	h, err := Load(path)
	if err != nil {
		// corrupt history is replaced
		h = &History{}
	}
	h.touch(e, time.Now())
	return h.Save(path)
}

// Last returns the most recent entry whose directory still exists.
// ok is false when there is none.
func Last(path string) (e Entry, ok bool, err error) {
	h, err := Load(path)
	if err != nil {
		return Entry{}, false, err
	}
	h.RemoveStale()
	if len(h.Entries) == 0 {
		return Entry{}, false, nil
	}
	return h.Entries[0], true, nil
}
