// Package catalog implements database and collection management with the
// protection rules for reserved names. Refusals are ordinary false results,
// never errors: dropping a protected database is an expected outcome the
// caller turns into a notice, not an exception.
package catalog

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/domain"
	"github.com/docpanel/docpanel/pkg/storage"
)

// Infrastructure databases are never listed and never droppable.
var reservedDatabases = map[string]bool{
	"admin":  true,
	"local":  true,
	"config": true,
}

// Service provides catalog operations over the shared cluster.
type Service struct {
	cluster  *storage.Cluster
	secureDB string
	logger   zerolog.Logger
}

// NewService creates a catalog service. secureDB is the credential database
// name; it is listed like any other database but can never be dropped.
func NewService(cluster *storage.Cluster, secureDB string, logger zerolog.Logger) *Service {
	return &Service{
		cluster:  cluster,
		secureDB: secureDB,
		logger:   logger,
	}
}

// ListDatabases returns every database except the reserved infrastructure
// names. The secure database is included.
func (s *Service) ListDatabases() []string {
	names := []string{}
	for _, name := range s.cluster.ListDatabases() {
		if reservedDatabases[name] {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ListCollections returns the collections of a database in sorted order. A
// database that does not exist has no collections.
func (s *Service) ListCollections(db string) []string {
	engine, ok := s.cluster.Lookup(db)
	if !ok {
		return []string{}
	}
	return engine.ListCollections()
}

// CreateCollection creates a collection, implicitly creating the database.
// Returns false if the collection already exists.
func (s *Service) CreateCollection(db, coll string) bool {
	engine, err := s.cluster.Database(db)
	if err != nil {
		s.logger.Error().Err(err).Str("database", db).Msg("failed to open database")
		return false
	}

	if err := engine.CreateCollection(coll); err != nil {
		if !errors.Is(err, domain.ErrCollectionExists) {
			s.logger.Error().Err(err).Str("database", db).Str("collection", coll).
				Msg("failed to create collection")
		}
		return false
	}

	s.logger.Info().Str("database", db).Str("collection", coll).Msg("collection created")
	return true
}

// DeleteCollection drops a collection. Returns false when it does not exist,
// and always false for the secure database's credential collection. That
// guard lives here and not only at the HTTP boundary: catalog operations can
// be reached by more than one caller path.
func (s *Service) DeleteCollection(db, coll string) bool {
	if db == s.secureDB && coll == domain.CredentialCollection {
		s.logger.Warn().Str("database", db).Str("collection", coll).
			Msg("refusing to drop credential collection")
		return false
	}

	engine, ok := s.cluster.Lookup(db)
	if !ok {
		return false
	}

	if err := engine.DropCollection(coll); err != nil {
		if !errors.Is(err, domain.ErrCollectionNotFound) {
			s.logger.Error().Err(err).Str("database", db).Str("collection", coll).
				Msg("failed to drop collection")
		}
		return false
	}

	s.logger.Info().Str("database", db).Str("collection", coll).Msg("collection dropped")
	return true
}

// DeleteDatabase drops a whole database, irreversibly. Returns false for the
// reserved infrastructure names, the secure database, and names that do not
// exist.
func (s *Service) DeleteDatabase(db string) bool {
	if reservedDatabases[db] {
		s.logger.Warn().Str("database", db).Msg("refusing to drop reserved database")
		return false
	}
	if db == s.secureDB {
		s.logger.Warn().Str("database", db).Msg("refusing to drop secure database")
		return false
	}

	if err := s.cluster.DropDatabase(db); err != nil {
		if !errors.Is(err, domain.ErrDatabaseNotFound) {
			s.logger.Error().Err(err).Str("database", db).Msg("failed to drop database")
		}
		return false
	}
	return true
}
