// Package mirror defines the remote document store the ledger is copied to.
//
// Documents live in collections inside a per-identity namespace. Every
// document carries the device that last wrote it, so a device can tell its
// own changes apart from changes made elsewhere.
package mirror

import (
	"context"
	"encoding/json"
	"time"
)

// Collection names a group of documents of one kind.
type Collection string

// The mirrored collections.
const (
	Cards        Collection = "cards"
	People       Collection = "people"
	Transactions Collection = "transactions"
)

// Collections lists every collection in dependency order: people before the
// transactions that reference them.
var Collections = []Collection{People, Transactions, Cards}

// Namespace isolates one identity's documents.
type Namespace string

// UserNamespace returns the namespace of an identity.
func UserNamespace(identity string) Namespace {
	return Namespace("users/" + identity)
}

// Document is one stored record. UpdatedAt and Origin are stamped by the
// store on write.
type Document struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
	Origin    string          `json:"origin,omitempty"`
}

// NewDocument encodes v as the data of a document with the given id.
func NewDocument(id string, v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: data}, nil
}

// Decode unmarshals the document data into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

// ChangeType tells what happened to a document.
type ChangeType string

const (
	Added    ChangeType = "added"
	Modified ChangeType = "modified"
	Removed  ChangeType = "removed"
)

// Change is one entry of a collection's change feed. For Removed changes
// only Doc.ID, Doc.Origin and Doc.UpdatedAt are set.
type Change struct {
	Type       ChangeType
	Collection Collection
	Doc        Document
}

// Store is the remote document mirror.
//
// Implementations classify failures as domain.ErrRemoteUnavailable when the
// mirror cannot be reached (closed, unreachable, timed out, not provisioned)
// and as domain.ErrRemote otherwise.
type Store interface {
	// Origin returns the device id stamped on every write.
	Origin() string

	// List returns every document of a collection.
	List(ctx context.Context, ns Namespace, c Collection) ([]Document, error)

	// Put creates or overwrites documents. A batch is applied atomically.
	Put(ctx context.Context, ns Namespace, c Collection, docs ...Document) error

	// Delete removes documents. Absent ids are ignored and emit no change.
	Delete(ctx context.Context, ns Namespace, c Collection, ids ...string) error

	// Watch streams a collection: first every existing document as Added,
	// then live changes in commit order. The channel is closed when ctx ends.
	Watch(ctx context.Context, ns Namespace, c Collection) (<-chan Change, error)

	// Close releases the store. Later calls fail with ErrRemoteUnavailable.
	Close() error
}
