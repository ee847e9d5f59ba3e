package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// jsonTable is one table of the mock store, persisted as a JSON array in
// <dir>/<name>.json. Rows are loaded on first access; every mutation is
// written through and the in-memory copy is only replaced once the write
// succeeded. An empty dir keeps the table in memory.
type jsonTable[T any] struct {
	mu     sync.RWMutex
	path   string
	rows   []T
	loaded bool

	id    func(*T) uint
	setID func(*T, uint)
	write func(path string, data []byte) error
}

func newJSONTable[T any](dir, name string, id func(*T) uint, setID func(*T, uint)) *jsonTable[T] {
	t := &jsonTable[T]{id: id, setID: setID, write: writeFileAtomic}
	if dir != "" {
		t.path = filepath.Join(dir, name+".json")
	}
	return t
}

func (t *jsonTable[T]) loadLocked() error {
	if t.loaded {
		return nil
	}
	if t.path != "" {
		data, err := os.ReadFile(t.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", t.path, err)
		case len(bytes.TrimSpace(data)) > 0:
			if err := json.Unmarshal(data, &t.rows); err != nil {
				return fmt.Errorf("failed to decode %s: %w", t.path, err)
			}
		}
	}
	t.loaded = true
	return nil
}

// snapshot returns a copy of every row.
func (t *jsonTable[T]) snapshot() ([]T, error) {
	t.mu.RLock()
	if t.loaded {
		rows := slices.Clone(t.rows)
		t.mu.RUnlock()
		return rows, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.loadLocked(); err != nil {
		return nil, err
	}
	return slices.Clone(t.rows), nil
}

func (t *jsonTable[T]) filter(match func(*T) bool) ([]T, error) {
	rows, err := t.snapshot()
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for i := range rows {
		if match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (t *jsonTable[T]) first(match func(*T) bool) (*T, error) {
	rows, err := t.snapshot()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if match(&rows[i]) {
			return &rows[i], nil
		}
	}
	return nil, ErrNotFound
}

func (t *jsonTable[T]) get(id uint) (*T, error) {
	return t.first(func(row *T) bool { return t.id(row) == id })
}

// mutate runs fn on a copy of the rows and commits its result.
func (t *jsonTable[T]) mutate(fn func(rows []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.loadLocked(); err != nil {
		return err
	}
	next, err := fn(slices.Clone(t.rows))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	if err := t.write(t.path, data); err != nil {
		return fmt.Errorf("failed to persist table: %w", err)
	}
	t.rows = next
	return nil
}

// insert assigns the next id (max + 1) to row and appends it.
func (t *jsonTable[T]) insert(row *T) error {
	return t.mutate(func(rows []T) ([]T, error) {
		var last uint
		for i := range rows {
			last = max(last, t.id(&rows[i]))
		}
		t.setID(row, last+1)
		return append(rows, *row), nil
	})
}

// update applies fn to the row with the given id.
func (t *jsonTable[T]) update(id uint, fn func(*T) error) error {
	return t.mutate(func(rows []T) ([]T, error) {
		for i := range rows {
			if t.id(&rows[i]) == id {
				if err := fn(&rows[i]); err != nil {
					return nil, err
				}
				return rows, nil
			}
		}
		return nil, ErrNotFound
	})
}

// removeWhere deletes every matching row and reports how many went.
func (t *jsonTable[T]) removeWhere(match func(*T) bool) (int, error) {
	removed := 0
	err := t.mutate(func(rows []T) ([]T, error) {
		out := rows[:0]
		for i := range rows {
			if match(&rows[i]) {
				removed++
				continue
			}
			out = append(out, rows[i])
		}
		return out, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (t *jsonTable[T]) remove(id uint) error {
	n, err := t.removeWhere(func(row *T) bool { return t.id(row) == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// writeFileAtomic replaces path with data through a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
