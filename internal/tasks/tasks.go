// Package tasks is a flat-file backlog: small, human-readable, and local
// to the operator. It exists so a tool-calling client can keep a work
// journal next to the repositories it operates on.
package tasks

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/raphi011/mcpgit/internal/storage"
)

// Task is one backlog entry.
type Task struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// ErrTaskNotFound indicates an unknown task ID.
var ErrTaskNotFound = errors.New("task not found")

// Store persists tasks as a single JSON file, written atomically.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type fileFormat struct {
	NextID int    `json:"next_id"`
	Tasks  []Task `json:"tasks"`
}

func (s *Store) load() (*fileFormat, error) {
	var f fileFormat
	if err := storage.LoadJSON(s.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileFormat{NextID: 1}, nil
		}
		return nil, err
	}
	if f.NextID < 1 {
		f.NextID = 1
	}
	return &f, nil
}

// Add appends a new open task.
func (s *Store) Add(title, notes string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("task title must not be empty")
	}

	f, err := s.load()
	if err != nil {
		return Task{}, err
	}

	task := Task{
		ID:        f.NextID,
		Title:     title,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	f.NextID++
	f.Tasks = append(f.Tasks, task)

	if err := storage.SaveJSON(s.path, f); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List returns tasks, open ones only unless includeDone is set.
func (s *Store) List(includeDone bool) ([]Task, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	if includeDone {
		return f.Tasks, nil
	}
	open := []Task{}
	for _, t := range f.Tasks {
		if !t.Done {
			open = append(open, t)
		}
	}
	return open, nil
}

// Done marks a task completed.
func (s *Store) Done(id int) (Task, error) {
	f, err := s.load()
	if err != nil {
		return Task{}, err
	}
	for i := range f.Tasks {
		if f.Tasks[i].ID != id {
			continue
		}
		now := time.Now()
		f.Tasks[i].Done = true
		f.Tasks[i].DoneAt = &now
		if err := storage.SaveJSON(s.path, f); err != nil {
			return Task{}, err
		}
		return f.Tasks[i], nil
	}
	return Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

// Remove deletes a task.
func (s *Store) Remove(id int) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	for i := range f.Tasks {
		if f.Tasks[i].ID != id {
			continue
		}
		f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
		return storage.SaveJSON(s.path, f)
	}
	return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}
