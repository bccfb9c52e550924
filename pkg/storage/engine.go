package storage

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/domain"
)

// collectionState tracks a collection's documents plus the bookkeeping the
// engine keeps alongside them: a monotonically increasing insertion sequence
// (pages are ordered by it) and any field indexes.
type collectionState struct {
	docs    map[string]domain.Document
	seq     map[string]int64
	nextSeq int64
	indexes map[string]*fieldIndex
}

func newCollectionState() *collectionState {
	return &collectionState{
		docs:    make(map[string]domain.Document),
		seq:     make(map[string]int64),
		indexes: make(map[string]*fieldIndex),
	}
}

// Engine holds one database: a set of named collections of documents.
// All access goes through the engine mutex; single-document operations are
// atomic, nothing spans documents transactionally.
type Engine struct {
	mu          sync.RWMutex
	name        string
	collections map[string]*collectionState
	dirty       bool

	// Persistence
	path string

	// Background auto-save
	autoSave     bool
	saveInterval time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup

	logger zerolog.Logger
}

// NewEngine creates an empty database engine.
func NewEngine(name string, options ...EngineOption) *Engine {
	e := &Engine{
		name:         name,
		collections:  make(map[string]*collectionState),
		saveInterval: 5 * time.Minute,
		stopChan:     make(chan struct{}),
		logger:       zerolog.Nop(),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Name returns the database name this engine holds.
func (e *Engine) Name() string {
	return e.name
}

// getOrCreateCollection returns the named collection, creating it on first
// touch. Caller must hold the write lock.
func (e *Engine) getOrCreateCollection(collName string) *collectionState {
	coll, exists := e.collections[collName]
	if !exists {
		coll = newCollectionState()
		e.collections[collName] = coll
	}
	return coll
}

func (e *Engine) markDirty() {
	e.dirty = true
}
