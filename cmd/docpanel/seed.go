package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/docpanel/docpanel/pkg/domain"
	"github.com/docpanel/docpanel/pkg/storage"
)

// seedSampleData populates test_db with a few collections so a fresh install
// has something to browse.
func seedSampleData(cluster *storage.Cluster) error {
	samples := map[string][]domain.Document{
		"users": {
			{"username": "alice", "role": "admin", "active": true},
			{"username": "bob", "role": "user", "active": true},
			{"username": "charlie", "role": "user", "active": false},
		},
		"products": {
			{"name": "Laptop", "price": 75000, "stock": 10},
			{"name": "Mouse", "price": 800, "stock": 50},
			{"name": "Keyboard", "price": 1500, "stock": 30},
		},
		"logs": {
			{"type": "login", "user": "alice", "status": "success"},
			{"type": "login", "user": "bob", "status": "failed"},
			{"type": "action", "user": "alice", "detail": "created product"},
		},
	}

	for collName, docsToInsert := range samples {
		handle := cluster.Collection("test_db", collName)
		for _, doc := range docsToInsert {
			if _, err := handle.Insert(doc); err != nil {
				return fmt.Errorf("failed to seed test_db.%s: %w", collName, err)
			}
		}
		log.Info().Str("collection", collName).Int("documents", len(docsToInsert)).
			Msg("seeded collection")
	}

	return nil
}
