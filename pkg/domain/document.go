package domain

import "github.com/google/uuid"

// IDField is the system-managed identifier key on every stored document.
// It is assigned at insert time and never writable through an update payload.
const IDField = "_id"

// Document represents a document in the database
type Document map[string]interface{}

// Copy returns a shallow copy of the document.
func (d Document) Copy() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document's identifier string, or "" if it has none.
func (d Document) ID() string {
	id, _ := d[IDField].(string)
	return id
}

// DocumentID is an opaque document identifier. Caller-supplied strings cross
// the boundary through ParseDocumentID, which reports malformed input instead
// of failing, so call sites can treat a bad id the same as a missing document.
type DocumentID struct {
	id uuid.UUID
}

// NewDocumentID generates a fresh identifier.
func NewDocumentID() DocumentID {
	return DocumentID{id: uuid.New()}
}

// ParseDocumentID parses a caller-supplied id string. The second return is
// false when the string is not a valid identifier.
func ParseDocumentID(s string) (DocumentID, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, false
	}
	return DocumentID{id: u}, true
}

// String returns the canonical string form of the identifier.
func (d DocumentID) String() string {
	return d.id.String()
}
