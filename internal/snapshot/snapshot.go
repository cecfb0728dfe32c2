// Package snapshot serializes parsed form documents for reuse between runs.
// A payload is bound to the exact bytes it was parsed from; a content hash
// mismatch means the document must be rebuilt, never trusted.
package snapshot

import (
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"pbform/internal/form"
)

// SchemaVersion invalidates stored payloads when the payload format changes.
const SchemaVersion uint16 = 1

// Digest is a SHA-256 of the normalized source bytes.
type Digest [sha256.Size]byte

// Payload is the on-disk form of one parsed document.
type Payload struct {
	Schema      uint16
	ContentHash Digest
	Doc         *form.FormDocument
}

// HashContent fingerprints the exact bytes a document was parsed from.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// FromDocument wraps a document for storage.
func FromDocument(doc *form.FormDocument, contentHash Digest) *Payload {
	return &Payload{
		Schema:      SchemaVersion,
		ContentHash: contentHash,
		Doc:         doc,
	}
}

// Encode serializes a payload.
func Encode(p *Payload) ([]byte, error) {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode deserializes a payload and verifies its schema. Rebuilt lookup
// indexes are restored; source ranges inside the document stay as written
// and are only valid against the hashed content.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d, want %d", p.Schema, SchemaVersion)
	}
	if p.Doc != nil {
		p.Doc.Reindex()
	}
	return &p, nil
}

// Matches reports whether the payload was built from the given bytes.
func (p *Payload) Matches(content []byte) bool {
	return p != nil && p.ContentHash == HashContent(content)
}
