package storage

import (
	"fmt"
	"sort"

	"github.com/docpanel/docpanel/pkg/domain"
)

// CreateCollection creates a new, empty collection.
func (e *Engine) CreateCollection(collName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if collName == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	if _, exists := e.collections[collName]; exists {
		return fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionExists)
	}

	e.collections[collName] = newCollectionState()
	e.markDirty()

	return nil
}

// DropCollection removes a collection and all of its documents.
func (e *Engine) DropCollection(collName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[collName]; !exists {
		return fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	delete(e.collections, collName)
	e.markDirty()

	return nil
}

// ListCollections returns all collection names in sorted order.
func (e *Engine) ListCollections() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCollection reports whether the named collection exists.
func (e *Engine) HasCollection(collName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, exists := e.collections[collName]
	return exists
}
