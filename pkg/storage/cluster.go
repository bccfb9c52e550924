package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/domain"
)

// Cluster is the single shared handle to the document store. It maps database
// names to engines, opening each database lazily on first touch. It is safe
// for concurrent use; no caller ever needs exclusive access to it.
type Cluster struct {
	mu      sync.RWMutex
	dataDir string
	engines map[string]*Engine
	known   map[string]bool // databases present on disk but not yet opened
	options []EngineOption
	logger  zerolog.Logger
}

// NewCluster opens a cluster rooted at dataDir. Databases already on disk
// are discovered but not loaded until first use. Engine options are applied
// to every database the cluster opens.
func NewCluster(dataDir string, options ...EngineOption) (*Cluster, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	c := &Cluster{
		dataDir: dataDir,
		engines: make(map[string]*Engine),
		known:   make(map[string]bool),
		options: options,
		logger:  zerolog.Nop(),
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, FileExtension) {
			continue
		}
		c.known[strings.TrimSuffix(name, FileExtension)] = true
	}

	return c, nil
}

// SetLogger attaches a logger to the cluster and to every database it opens
// from now on.
func (c *Cluster) SetLogger(logger zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	c.options = append(c.options, WithLogger(logger))
}

func (c *Cluster) filePath(name string) string {
	return filepath.Join(c.dataDir, name+FileExtension)
}

// Database returns the engine for a named database, creating it implicitly
// if it does not exist yet.
func (c *Cluster) Database(name string) (*Engine, error) {
	c.mu.RLock()
	engine, open := c.engines[name]
	c.mu.RUnlock()
	if open {
		return engine, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if engine, open := c.engines[name]; open {
		return engine, nil
	}

	engine = NewEngine(name, c.options...)
	engine.path = c.filePath(name)

	if c.known[name] {
		if err := engine.LoadFromFile(engine.path); err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", name, err)
		}
	}

	engine.StartBackgroundWorkers()
	c.engines[name] = engine
	c.known[name] = true

	return engine, nil
}

// Lookup returns the engine for a database that already exists, opening it
// from disk if needed. Unknown names report false instead of creating.
func (c *Cluster) Lookup(name string) (*Engine, bool) {
	c.mu.RLock()
	engine, open := c.engines[name]
	known := c.known[name]
	c.mu.RUnlock()

	if open {
		return engine, true
	}
	if !known {
		return nil, false
	}

	engine, err := c.Database(name)
	if err != nil {
		c.logger.Error().Err(err).Str("database", name).Msg("failed to open database")
		return nil, false
	}
	return engine, true
}

// HasDatabase reports whether a database exists, open or on disk.
func (c *Cluster) HasDatabase(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engines[name] != nil || c.known[name]
}

// ListDatabases returns every known database name in sorted order.
func (c *Cluster) ListDatabases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.known))
	for name := range c.known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropDatabase removes a database and its file. Irreversible.
func (c *Cluster) DropDatabase(name string) error {
	c.mu.Lock()
	engine, open := c.engines[name]
	known := c.known[name]
	delete(c.engines, name)
	delete(c.known, name)
	c.mu.Unlock()

	if !open && !known {
		return fmt.Errorf("database %s: %w", name, domain.ErrDatabaseNotFound)
	}

	if open {
		engine.StopBackgroundWorkers()
	}

	if err := os.Remove(c.filePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove database file: %w", err)
	}

	c.logger.Info().Str("database", name).Msg("database dropped")
	return nil
}

// Collection returns a handle scoped to one collection of one database.
func (c *Cluster) Collection(db, coll string) Handle {
	return Handle{cluster: c, db: db, coll: coll}
}

// SaveAll writes every open, dirty database to disk.
func (c *Cluster) SaveAll() error {
	c.mu.RLock()
	engines := make([]*Engine, 0, len(c.engines))
	for _, engine := range c.engines {
		engines = append(engines, engine)
	}
	c.mu.RUnlock()

	for _, engine := range engines {
		if err := engine.Save(); err != nil {
			return fmt.Errorf("failed to save database %s: %w", engine.Name(), err)
		}
	}
	return nil
}

// Close stops background workers and performs a final save of every open
// database.
func (c *Cluster) Close() error {
	c.mu.RLock()
	engines := make([]*Engine, 0, len(c.engines))
	for _, engine := range c.engines {
		engines = append(engines, engine)
	}
	c.mu.RUnlock()

	for _, engine := range engines {
		engine.StopBackgroundWorkers()
	}
	return c.SaveAll()
}

// Handle is a stateless accessor scoped to (database, collection). Reads and
// mutations of existing documents never materialize a missing database;
// inserts create the database and collection implicitly, as the store does.
type Handle struct {
	cluster *Cluster
	db      string
	coll    string
}

// Insert adds a document, creating database and collection on first touch.
func (h Handle) Insert(doc domain.Document) (domain.DocumentID, error) {
	engine, err := h.cluster.Database(h.db)
	if err != nil {
		return domain.DocumentID{}, err
	}
	return engine.Insert(h.coll, doc)
}

// GetByID retrieves a document by id.
func (h Handle) GetByID(id domain.DocumentID) (domain.Document, error) {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return nil, fmt.Errorf("database %s: %w", h.db, domain.ErrDatabaseNotFound)
	}
	return engine.GetByID(h.coll, id)
}

// UpdateByID merges fields into a document, returning the changed count.
func (h Handle) UpdateByID(id domain.DocumentID, updates domain.Document) (int, error) {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return 0, fmt.Errorf("database %s: %w", h.db, domain.ErrDatabaseNotFound)
	}
	return engine.UpdateByID(h.coll, id, updates)
}

// DeleteByID removes a document by id.
func (h Handle) DeleteByID(id domain.DocumentID) error {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return fmt.Errorf("database %s: %w", h.db, domain.ErrDatabaseNotFound)
	}
	return engine.DeleteByID(h.coll, id)
}

// Count returns the collection's document count; a missing database or
// collection counts as empty.
func (h Handle) Count() int {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return 0
	}
	return engine.Count(h.coll)
}

// FindPage returns one page of documents plus the total count.
func (h Handle) FindPage(page, pageSize int) ([]domain.Document, int, error) {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return nil, 0, fmt.Errorf("database %s: %w", h.db, domain.ErrDatabaseNotFound)
	}
	return engine.FindPage(h.coll, page, pageSize)
}

// FindByField returns documents whose field equals value.
func (h Handle) FindByField(field string, value interface{}) ([]domain.Document, error) {
	engine, ok := h.cluster.Lookup(h.db)
	if !ok {
		return nil, fmt.Errorf("database %s: %w", h.db, domain.ErrDatabaseNotFound)
	}
	return engine.FindByField(h.coll, field, value)
}

// EnsureFieldIndex declares a field index, creating database and collection
// if needed.
func (h Handle) EnsureFieldIndex(field string) error {
	engine, err := h.cluster.Database(h.db)
	if err != nil {
		return err
	}
	engine.EnsureFieldIndex(h.coll, field)
	return nil
}
