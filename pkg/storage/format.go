package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "DPNL"
	// Current version
	FormatVersion = 1
	// File extension for database files
	FileExtension = ".dpdb"
)

// Header flags.
const (
	// FlagUncompressed marks a payload stored as raw msgpack, used when lz4
	// cannot shrink the data.
	FlagUncompressed uint8 = 1 << 0
)

// FileHeader represents the header of a database file. The payload after the
// header is a little-endian uint64 uncompressed length followed by the
// msgpack body, lz4 block-compressed unless FlagUncompressed is set.
type FileHeader struct {
	Magic    [4]byte // "DPNL"
	Version  uint8   // Format version
	Flags    uint8
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:    [4]byte{'D', 'P', 'N', 'L'},
		Version:  FormatVersion,
		Flags:    flags,
		Reserved: [2]byte{0, 0},
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// databaseFile is the on-disk shape of one database: every collection with
// its documents, insertion sequences, and declared index fields.
type databaseFile struct {
	Collections map[string]collectionFile `msgpack:"collections"`
}

type collectionFile struct {
	Documents map[string]map[string]interface{} `msgpack:"documents"`
	Seq       map[string]int64                  `msgpack:"seq"`
	NextSeq   int64                             `msgpack:"next_seq"`
	Indexes   []string                          `msgpack:"indexes,omitempty"`
}
