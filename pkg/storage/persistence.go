package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/docpanel/docpanel/pkg/domain"
)

// SaveToFile writes the whole database to a single file: magic header, the
// uncompressed payload length, then an lz4-compressed msgpack blob.
func (e *Engine) SaveToFile(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := databaseFile{Collections: make(map[string]collectionFile)}
	for collName, coll := range e.collections {
		cf := collectionFile{
			Documents: make(map[string]map[string]interface{}, len(coll.docs)),
			Seq:       make(map[string]int64, len(coll.seq)),
			NextSeq:   coll.nextSeq,
		}
		for docID, doc := range coll.docs {
			cf.Documents[docID] = map[string]interface{}(doc)
			cf.Seq[docID] = coll.seq[docID]
		}
		for field := range coll.indexes {
			cf.Indexes = append(cf.Indexes, field)
		}
		sort.Strings(cf.Indexes)
		data.Collections[collName] = cf
	}

	msgpackData, err := msgpack.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	// lz4 reports incompressible input as a zero-length block; store those
	// payloads raw and flag them in the header.
	payload := compressed[:n]
	var flags uint8
	if n == 0 {
		payload = msgpackData
		flags = FlagUncompressed
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteHeader(file, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, uint64(len(msgpackData))); err != nil {
		return fmt.Errorf("failed to write payload length: %w", err)
	}
	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}

	e.dirty = false
	e.logger.Debug().Str("database", e.name).Str("file", filename).Msg("database saved")
	return nil
}

// LoadFromFile replaces the engine's contents with the database stored in
// the given file. A missing file leaves the engine empty.
func (e *Engine) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	var rawLen uint64
	if err := binary.Read(file, binary.LittleEndian, &rawLen); err != nil {
		return fmt.Errorf("failed to read payload length: %w", err)
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	decompressed := payload
	if header.Flags&FlagUncompressed == 0 {
		// The stored length sizes the destination exactly
		decompressed = make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, decompressed)
		if err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
		decompressed = decompressed[:n]
	}

	var data databaseFile
	if err := msgpack.Unmarshal(decompressed, &data); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.collections = make(map[string]*collectionState, len(data.Collections))
	for collName, cf := range data.Collections {
		coll := newCollectionState()
		coll.nextSeq = cf.NextSeq
		for docID, raw := range cf.Documents {
			doc := domain.Document{}
			for key, value := range raw {
				doc[key] = value
			}
			coll.docs[docID] = doc
			coll.seq[docID] = cf.Seq[docID]
		}
		for _, field := range cf.Indexes {
			idx := newFieldIndex(field)
			for docID, doc := range coll.docs {
				idx.update(docID, nil, doc)
			}
			coll.indexes[field] = idx
		}
		e.collections[collName] = coll
	}

	e.dirty = false
	e.logger.Debug().Str("database", e.name).Str("file", filename).
		Int("collections", len(e.collections)).Msg("database loaded")
	return nil
}

// Save writes the database to its assigned file, skipping the write when
// nothing has changed since the last save.
func (e *Engine) Save() error {
	e.mu.RLock()
	path, dirty := e.path, e.dirty
	e.mu.RUnlock()

	if path == "" || !dirty {
		return nil
	}
	return e.SaveToFile(path)
}
