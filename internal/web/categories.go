package web

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"minotes/internal/note"
)

var (
	ErrDefaultCategory = errors.New("cannot delete a default category")
	ErrCategoryExists  = errors.New("category already exists")
	ErrCategoryUnknown = errors.New("category not found")
)

// Categories persists the user-defined category list as a small YAML file
// in the data directory. The default set is fixed and cannot be removed.
type Categories struct {
	mu     sync.Mutex
	path   string
	custom []string
}

func LoadCategories(path string) (*Categories, error) {
	c := &Categories{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.custom); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}
	return c, nil
}

// Custom returns a copy of the user-defined list, sorted.
func (c *Categories) Custom() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.custom))
	copy(out, c.custom)
	sort.Strings(out)
	return out
}

func (c *Categories) Add(name string) error {
	if name == "" {
		return &note.ValidationError{Field: "name"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range note.DefaultCategories() {
		if d == name {
			return ErrCategoryExists
		}
	}
	for _, existing := range c.custom {
		if existing == name {
			return ErrCategoryExists
		}
	}
	c.custom = append(c.custom, name)
	return c.persist()
}

func (c *Categories) Remove(name string) error {
	if name == "" {
		return &note.ValidationError{Field: "name"}
	}
	for _, d := range note.DefaultCategories() {
		if d == name {
			return ErrDefaultCategory
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.custom {
		if existing == name {
			c.custom = append(c.custom[:i], c.custom[i+1:]...)
			return c.persist()
		}
	}
	return ErrCategoryUnknown
}

func (c *Categories) persist() error {
	data, err := yaml.Marshal(c.custom)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	return nil
}
