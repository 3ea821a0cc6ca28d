// Package registry provides a thread-safe, generic name -> item registry.
// The server uses it to hold the MongoDB collections opened at boot.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"expo_leads/internal/common"
)

// Registry is a thread-safe map of named items.
//
// Example:
//
//	collections := NewRegistry[*mongo.Collection]()
//	collections.Register("user", db.Collection("user"))
//	if coll, ok := collections.Get("user"); ok {
//	    ...
//	}
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register stores item under name, replacing any previous item.
// isNew reports whether the name was unused.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get returns the item registered under name
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// Names returns the registered names in sorted order
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAll removes every item, calling cleanup on each first when given
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.items)
	if count == 0 {
		return 0, nil
	}

	if cleanup != nil {
		var errs []error
		for name, item := range r.items {
			if err := cleanup(item); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, err))
			}
		}
		if len(errs) > 0 {
			return 0, fmt.Errorf("cleanup errors occurred: %v", errs)
		}
	}

	r.items = make(map[string]T)
	return count, nil
}
