package storage

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docpanel/docpanel/pkg/domain"
)

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_db"+FileExtension)

	engine := NewEngine("test_db")
	engine.EnsureFieldIndex("users", "username")

	id1, err := engine.Insert("users", domain.Document{"username": "alice", "age": 30})
	require.NoError(t, err)
	id2, err := engine.Insert("users", domain.Document{"username": "bob"})
	require.NoError(t, err)
	_, err = engine.Insert("products", domain.Document{"name": "Laptop"})
	require.NoError(t, err)
	require.NoError(t, engine.CreateCollection("empty"))

	require.NoError(t, engine.SaveToFile(path))

	loaded := NewEngine("test_db")
	require.NoError(t, loaded.LoadFromFile(path))

	assert.Equal(t, []string{"empty", "products", "users"}, loaded.ListCollections())
	assert.Equal(t, 2, loaded.Count("users"))

	doc, err := loaded.GetByID("users", id1)
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["username"])
	assert.EqualValues(t, 30, doc["age"])

	// Insertion order survives the round trip
	pageDocs, total, err := loaded.FindPage("users", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, id1.String(), pageDocs[0].ID())
	assert.Equal(t, id2.String(), pageDocs[1].ID())

	// Declared indexes are rebuilt
	matches, err := loaded.FindByField("users", "username", "bob")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id2.String(), matches[0].ID())
}

func TestSaveAndLoadFile_HighCompressionRatio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blobs"+FileExtension)

	// Repetitive content compresses far past 10:1; the stored payload
	// length must still size the load correctly
	engine := NewEngine("blobs")
	blob := strings.Repeat("status=ok;", 50_000)
	id, err := engine.Insert("logs", domain.Document{"data": blob})
	require.NoError(t, err)
	require.NoError(t, engine.SaveToFile(path))

	loaded := NewEngine("blobs")
	require.NoError(t, loaded.LoadFromFile(path))

	doc, err := loaded.GetByID("logs", id)
	require.NoError(t, err)
	assert.Equal(t, blob, doc["data"])
}

func TestSaveAndLoadFile_IncompressibleData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rand"+FileExtension)

	// Random bytes defeat lz4 entirely; such payloads are stored raw
	noise := make([]byte, 4096)
	_, err := rand.Read(noise)
	require.NoError(t, err)

	engine := NewEngine("rand")
	id, err := engine.Insert("samples", domain.Document{"data": noise})
	require.NoError(t, err)
	require.NoError(t, engine.SaveToFile(path))

	loaded := NewEngine("rand")
	require.NoError(t, loaded.LoadFromFile(path))

	doc, err := loaded.GetByID("samples", id)
	require.NoError(t, err)
	assert.EqualValues(t, noise, doc["data"])
}

func TestLoadFromFile_Missing(t *testing.T) {
	engine := NewEngine("test_db")
	err := engine.LoadFromFile(filepath.Join(t.TempDir(), "nope"+FileExtension))
	require.NoError(t, err)
	assert.Empty(t, engine.ListCollections())
}

func TestLoadFromFile_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad"+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte("XXXX\x01\x00\x00\x00junk"), 0o644))

	engine := NewEngine("test_db")
	err := engine.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file")
}

func TestSave_SkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine("test_db")
	engine.path = filepath.Join(dir, "test_db"+FileExtension)

	// Nothing dirty yet, nothing written
	require.NoError(t, engine.Save())
	_, err := os.Stat(engine.path)
	assert.True(t, os.IsNotExist(err))

	_, err = engine.Insert("users", domain.Document{"a": 1})
	require.NoError(t, err)

	require.NoError(t, engine.Save())
	_, err = os.Stat(engine.path)
	require.NoError(t, err)

	// A second Save with no new writes leaves the file alone
	before, err := os.Stat(engine.path)
	require.NoError(t, err)
	require.NoError(t, engine.Save())
	after, err := os.Stat(engine.path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestHeaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdr"+FileExtension)
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteHeader(file, 0))
	require.NoError(t, file.Close())

	file, err = os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	header, err := ReadHeader(file)
	require.NoError(t, err)
	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.Equal(t, uint8(FormatVersion), header.Version)
}
