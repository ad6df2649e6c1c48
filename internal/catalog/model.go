package catalog

import (
	"errors"
	"slices"

	"github.com/tuannm99/safeen/internal/record"
)

var (
	ErrExists   = errors.New("catalog: name already registered")
	ErrNotFound = errors.New("catalog: name not registered")
)

// TableMeta describes one table without exposing its rows.
type TableMeta struct {
	Name     string          `json:"name"`
	Columns  []record.Column `json:"columns"`
	RowCount int             `json:"row_count"`
}

// Catalog is a name registry that remembers registration order.
type Catalog[T any] struct {
	names []string
	items map[string]T
}

func New[T any]() *Catalog[T] {
	return &Catalog[T]{items: make(map[string]T)}
}

func (c *Catalog[T]) Len() int { return len(c.names) }

func (c *Catalog[T]) Add(name string, v T) error {
	if _, ok := c.items[name]; ok {
		return ErrExists
	}
	c.items[name] = v
	c.names = append(c.names, name)
	return nil
}

func (c *Catalog[T]) Get(name string) (T, bool) {
	v, ok := c.items[name]
	return v, ok
}

// Remove drops name; the remaining entries keep their order.
func (c *Catalog[T]) Remove(name string) error {
	if _, ok := c.items[name]; !ok {
		return ErrNotFound
	}
	delete(c.items, name)
	c.names = slices.DeleteFunc(c.names, func(n string) bool { return n == name })
	return nil
}

// Names returns registered names in order.
func (c *Catalog[T]) Names() []string { return slices.Clone(c.names) }

// Values returns registered items in order.
func (c *Catalog[T]) Values() []T {
	out := make([]T, len(c.names))
	for i, n := range c.names {
		out[i] = c.items[n]
	}
	return out
}
