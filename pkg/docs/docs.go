// Package docs implements document CRUD and pagination over arbitrary
// collections. Caller-supplied ids arrive as strings; a malformed id behaves
// exactly like a missing document so call sites branch uniformly.
package docs

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/domain"
	"github.com/docpanel/docpanel/pkg/storage"
)

// Service provides document operations over the shared cluster.
type Service struct {
	cluster *storage.Cluster
	logger  zerolog.Logger
}

// NewService creates a document service.
func NewService(cluster *storage.Cluster, logger zerolog.Logger) *Service {
	return &Service{cluster: cluster, logger: logger}
}

// Paginate returns one page of a collection in insertion order. Page and
// pageSize floor at 1. A database or collection that does not exist reads as
// empty: total 0, one empty page.
func (s *Service) Paginate(db, coll string, page, pageSize int) domain.PageResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	pageDocs, total, err := s.cluster.Collection(db, coll).FindPage(page, pageSize)
	if err != nil {
		if !errors.Is(err, domain.ErrDatabaseNotFound) && !errors.Is(err, domain.ErrCollectionNotFound) {
			s.logger.Error().Err(err).Str("database", db).Str("collection", coll).
				Msg("pagination failed")
		}
		return domain.NewPageResult(nil, page, pageSize, 0)
	}

	return domain.NewPageResult(pageDocs, page, pageSize, total)
}

// Get retrieves a document by its string id. Returns (nil, false) for a
// malformed id or a missing document.
func (s *Service) Get(db, coll, id string) (domain.Document, bool) {
	docID, ok := domain.ParseDocumentID(id)
	if !ok {
		return nil, false
	}

	doc, err := s.cluster.Collection(db, coll).GetByID(docID)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Insert adds a document and returns its newly assigned id. The payload is
// stored as given, minus any identifier field; no schema is enforced.
func (s *Service) Insert(db, coll string, data domain.Document) (string, error) {
	id, err := s.cluster.Collection(db, coll).Insert(data)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("database", db).Str("collection", coll).
		Stringer("id", id).Msg("document inserted")
	return id.String(), nil
}

// Update merges the supplied fields into a document. Any identifier field in
// the payload is ignored. Returns false for a malformed id, a missing
// document, or an update that changed nothing.
func (s *Service) Update(db, coll, id string, data domain.Document) bool {
	docID, ok := domain.ParseDocumentID(id)
	if !ok {
		return false
	}

	changed, err := s.cluster.Collection(db, coll).UpdateByID(docID, data)
	if err != nil || changed == 0 {
		return false
	}

	s.logger.Info().Str("database", db).Str("collection", coll).
		Str("id", id).Int("fields", changed).Msg("document updated")
	return true
}

// Delete removes a document. Returns false for a malformed id or a missing
// document, so deleting twice reports true then false.
func (s *Service) Delete(db, coll, id string) bool {
	docID, ok := domain.ParseDocumentID(id)
	if !ok {
		return false
	}

	if err := s.cluster.Collection(db, coll).DeleteByID(docID); err != nil {
		return false
	}

	s.logger.Info().Str("database", db).Str("collection", coll).
		Str("id", id).Msg("document deleted")
	return true
}
