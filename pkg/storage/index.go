package storage

import "reflect"

// fieldIndex stores a mapping from a field's value to document IDs.
type fieldIndex struct {
	field    string
	inverted map[interface{}][]string
}

func newFieldIndex(field string) *fieldIndex {
	return &fieldIndex{
		field:    field,
		inverted: make(map[interface{}][]string),
	}
}

// indexable reports whether a value can serve as a map key. Documents are
// arbitrary JSON, so array- and object-valued fields show up here; those
// stay out of the index and are found by the scan path instead.
func indexable(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// query returns document IDs that match a given value in the indexed field.
func (idx *fieldIndex) query(value interface{}) []string {
	if !indexable(value) {
		return nil
	}
	return idx.inverted[value]
}

// update keeps the index current across an insert (oldDoc nil), update, or
// delete (newDoc nil). Values that cannot be hashed are skipped.
func (idx *fieldIndex) update(docID string, oldDoc, newDoc map[string]interface{}) {
	if oldVal, ok := oldDoc[idx.field]; ok && indexable(oldVal) {
		docList := idx.inverted[oldVal]
		for i, id := range docList {
			if id == docID {
				idx.inverted[oldVal] = append(docList[:i], docList[i+1:]...)
				break
			}
		}
	}
	if newVal, ok := newDoc[idx.field]; ok && indexable(newVal) {
		idx.inverted[newVal] = append(idx.inverted[newVal], docID)
	}
}

// EnsureFieldIndex creates an index on a collection field if one does not
// already exist, building it from the documents present. The collection is
// created on first touch so indexes can be declared ahead of data.
func (e *Engine) EnsureFieldIndex(collName, field string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	coll := e.getOrCreateCollection(collName)
	if _, exists := coll.indexes[field]; exists {
		return
	}

	idx := newFieldIndex(field)
	for docID, doc := range coll.docs {
		idx.update(docID, nil, doc)
	}
	coll.indexes[field] = idx

	e.logger.Debug().Str("database", e.name).Str("collection", collName).
		Str("field", field).Msg("built field index")
}
