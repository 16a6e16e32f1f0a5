package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to another document.
//
// An unpopulated reference serializes as the bare id string, a populated one as the embedded document,
// and a reference whose target no longer exists as null.
type Ref[T any] struct {
	ID       string
	Doc      *T
	Dangling bool
}

// RefTo builds an unpopulated reference to id.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// IsZero reports whether the reference points nowhere.
func (r Ref[T]) IsZero() bool { return r.ID == "" }

// Populated reports whether the referenced document was loaded.
func (r Ref[T]) Populated() bool { return r.Doc != nil }

// Resolve attaches the loaded target. A nil doc marks the reference dangling, keeping its id.
func (r *Ref[T]) Resolve(doc *T) {
	r.Doc = doc
	r.Dangling = doc == nil && r.ID != ""
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch {
	case r.Doc != nil:
		return json.Marshal(r.Doc)
	case r.ID == "" || r.Dangling:
		return []byte("null"), nil
	default:
		return json.Marshal(r.ID)
	}
}

// UnmarshalJSON accepts null, an id string, or a document carrying an "_id" field.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &r.ID)
	case len(data) > 0 && data[0] == '{':
		var head struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return err
		}
		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		r.ID, r.Doc = head.ID, &doc
		return nil
	default:
		return fmt.Errorf("reference must be an id string or an object, got %s", data)
	}
}
