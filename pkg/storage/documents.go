package storage

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/docpanel/docpanel/pkg/domain"
)

// Insert adds a document to a collection, creating the collection if needed.
// Any caller-supplied identifier field is discarded; the engine assigns a
// fresh id and returns it.
func (e *Engine) Insert(collName string, doc domain.Document) (domain.DocumentID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	coll := e.getOrCreateCollection(collName)

	id := domain.NewDocumentID()
	stored := doc.Copy()
	stored[domain.IDField] = id.String()

	coll.nextSeq++
	coll.seq[id.String()] = coll.nextSeq
	coll.docs[id.String()] = stored

	for _, idx := range coll.indexes {
		idx.update(id.String(), nil, stored)
	}

	e.markDirty()
	return id, nil
}

// GetByID retrieves a document by its id. The returned document is a copy;
// callers may mutate it freely.
func (e *Engine) GetByID(collName string, id domain.DocumentID) (domain.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	coll, exists := e.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	doc, exists := coll.docs[id.String()]
	if !exists {
		return nil, fmt.Errorf("document %s in %s: %w", id, collName, domain.ErrDocumentNotFound)
	}

	return doc.Copy(), nil
}

// UpdateByID merges the supplied fields into an existing document. The
// identifier field is immutable and silently skipped. Returns the number of
// fields whose values actually changed.
func (e *Engine) UpdateByID(collName string, id domain.DocumentID, updates domain.Document) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	coll, exists := e.collections[collName]
	if !exists {
		return 0, fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	doc, exists := coll.docs[id.String()]
	if !exists {
		return 0, fmt.Errorf("document %s in %s: %w", id, collName, domain.ErrDocumentNotFound)
	}

	oldDoc := doc.Copy()

	changed := 0
	for key, value := range updates {
		if key == domain.IDField {
			continue
		}
		old, had := doc[key]
		if !had || !reflect.DeepEqual(old, value) {
			doc[key] = value
			changed++
		}
	}

	if changed > 0 {
		for _, idx := range coll.indexes {
			idx.update(id.String(), oldDoc, doc)
		}
		e.markDirty()
	}

	return changed, nil
}

// DeleteByID removes a document by its id.
func (e *Engine) DeleteByID(collName string, id domain.DocumentID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	coll, exists := e.collections[collName]
	if !exists {
		return fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	doc, exists := coll.docs[id.String()]
	if !exists {
		return fmt.Errorf("document %s in %s: %w", id, collName, domain.ErrDocumentNotFound)
	}

	for _, idx := range coll.indexes {
		idx.update(id.String(), doc, nil)
	}

	delete(coll.docs, id.String())
	delete(coll.seq, id.String())
	e.markDirty()

	return nil
}

// Count returns the number of documents in a collection. A collection that
// does not exist counts as empty.
func (e *Engine) Count(collName string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	coll, exists := e.collections[collName]
	if !exists {
		return 0
	}
	return len(coll.docs)
}

// FindPage returns one page of documents in insertion order, plus the total
// document count. Page numbering starts at 1; a page past the end is empty.
func (e *Engine) FindPage(collName string, page, pageSize int) ([]domain.Document, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	coll, exists := e.collections[collName]
	if !exists {
		return nil, 0, fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	docs := e.sortedDocs(coll)
	total := len(docs)

	// Division instead of multiplication keeps arbitrarily large page
	// numbers from overflowing the skip offset.
	if total == 0 || page-1 > (total-1)/pageSize {
		return []domain.Document{}, total, nil
	}

	skip := (page - 1) * pageSize
	end := total
	if pageSize < total-skip {
		end = skip + pageSize
	}

	out := make([]domain.Document, 0, end-skip)
	for _, doc := range docs[skip:end] {
		out = append(out, doc.Copy())
	}
	return out, total, nil
}

// FindByField returns all documents whose field equals value, in insertion
// order. Uses a field index when one exists, otherwise scans.
func (e *Engine) FindByField(collName, field string, value interface{}) ([]domain.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	coll, exists := e.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s: %w", collName, domain.ErrCollectionNotFound)
	}

	var matches []domain.Document
	if idx, indexed := coll.indexes[field]; indexed && indexable(value) {
		for _, docID := range idx.query(value) {
			if doc, ok := coll.docs[docID]; ok {
				matches = append(matches, doc)
			}
		}
	} else {
		for _, doc := range coll.docs {
			if reflect.DeepEqual(doc[field], value) {
				matches = append(matches, doc)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return coll.seq[matches[i].ID()] < coll.seq[matches[j].ID()]
	})

	out := make([]domain.Document, 0, len(matches))
	for _, doc := range matches {
		out = append(out, doc.Copy())
	}
	return out, nil
}

// sortedDocs returns a collection's documents ordered by insertion sequence.
// Caller must hold at least the read lock.
func (e *Engine) sortedDocs(coll *collectionState) []domain.Document {
	docs := make([]domain.Document, 0, len(coll.docs))
	for _, doc := range coll.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return coll.seq[docs[i].ID()] < coll.seq[docs[j].ID()]
	})
	return docs
}
