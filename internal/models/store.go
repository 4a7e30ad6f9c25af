package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	CoreTeamCol           = "core_team"
	MentorsCol            = "mentors"
	EventsCol             = "events"
	RegistrationsCol      = "registrations"
	ContactSubmissionsCol = "contact_submissions"
)

var ErrNotFound = errors.New("document not found")

// DocumentStore is the gateway to the hosted document database. Every write
// touches a single document; there are no multi-document transactions.
type DocumentStore interface {
	Create(ctx context.Context, collection string, doc any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string, out any) error
	// Query decodes every matching document into out, which must be a pointer to a slice.
	Query(ctx context.Context, collection string, q Query, out any) error
	// Subscribe delivers the full matching set now and after every change to
	// the collection until the returned Unsubscribe is called or ctx is done.
	Subscribe(ctx context.Context, collection string, q Query, listener Listener) (Unsubscribe, error)
}

// Snapshot is one delivery of a live query.
type Snapshot struct {
	Docs []bson.Raw
	Err  error
}

type Listener func(Snapshot)

// Unsubscribe stops a live query. It is safe to call more than once and
// returns only after the listener can no longer be invoked.
type Unsubscribe func()

func (s Snapshot) Len() int {
	return len(s.Docs)
}

// DecodeAll decodes every document of a snapshot into T.
func DecodeAll[T any](s Snapshot) ([]T, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]T, 0, len(s.Docs))
	for _, raw := range s.Docs {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("error decoding snapshot document: %v", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ToDocument converts any bson-serialisable value into a bson.M.
func ToDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("error decoding document: %v", err)
	}
	return m, nil
}
