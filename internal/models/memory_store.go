package models

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process DocumentStore used for local development
// (STORE_DRIVER=memory) and tests. Documents round-trip through BSON so the
// same struct tags apply as with MongoDB.
type MemoryStore struct {
	mu     sync.RWMutex
	cols   map[string]*memCollection
	subs   map[int]*memSubscription
	nextID int
}

type memCollection struct {
	docs  map[string]bson.Raw
	order []string
}

type memSubscription struct {
	mu         sync.Mutex
	closed     bool
	collection string
	query      Query
	listener   Listener
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols: make(map[string]*memCollection),
		subs: make(map[int]*memSubscription),
	}
}

func (s *MemoryStore) collection(name string) *memCollection {
	c, ok := s.cols[name]
	if !ok {
		c = &memCollection{docs: make(map[string]bson.Raw)}
		s.cols[name] = c
	}
	return c
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m, err := ToDocument(doc)
	if err != nil {
		return "", err
	}
	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("error encoding document: %v", err)
	}

	s.mu.Lock()
	c := s.collection(collection)
	if _, exists := c.docs[id]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("duplicate id %s in %s", id, collection)
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	notify(pending)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}
	patch, err := ToDocument(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	c := s.collection(collection)
	raw, ok := c.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("error decoding document: %v", err)
	}
	for k, v := range patch {
		m[k] = v
	}
	updated, err := bson.Marshal(m)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("error encoding document: %v", err)
	}
	c.docs[id] = updated
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	notify(pending)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	c := s.collection(collection)
	if _, ok := c.docs[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	pending := s.snapshotsLocked(collection)
	s.mu.Unlock()

	notify(pending)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	var raw bson.Raw
	if c, ok := s.cols[collection]; ok {
		raw = c.docs[id]
	}
	s.mu.RUnlock()

	if raw == nil {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	docs, err := s.matchLocked(collection, q)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return decodeInto(docs, out)
}

// Subscribe delivers the first snapshot before returning. Later snapshots are
// delivered synchronously by the goroutine performing the write, so listeners
// must not block and must not call the returned Unsubscribe from inside the callback.
func (s *MemoryStore) Subscribe(ctx context.Context, collection string, q Query, listener Listener) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &memSubscription{collection: collection, query: q, listener: listener}

	s.mu.Lock()
	s.nextID++
	key := s.nextID
	s.subs[key] = sub
	docs, err := s.matchLocked(collection, q)
	s.mu.Unlock()

	sub.deliver(Snapshot{Docs: docs, Err: err})

	var once sync.Once
	remove := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, key)
			s.mu.Unlock()

			sub.mu.Lock()
			sub.closed = true
			sub.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, remove)
	return func() {
		stop()
		remove()
	}, nil
}

type pendingSnapshot struct {
	sub  *memSubscription
	snap Snapshot
}

func (s *MemoryStore) snapshotsLocked(collection string) []pendingSnapshot {
	var out []pendingSnapshot
	for _, sub := range s.subs {
		if sub.collection != collection {
			continue
		}
		docs, err := s.matchLocked(collection, sub.query)
		out = append(out, pendingSnapshot{sub: sub, snap: Snapshot{Docs: docs, Err: err}})
	}
	return out
}

func notify(pending []pendingSnapshot) {
	for _, p := range pending {
		p.sub.deliver(p.snap)
	}
}

func (sub *memSubscription) deliver(snap Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.listener(snap)
}

func (s *MemoryStore) matchLocked(collection string, q Query) ([]bson.Raw, error) {
	c, ok := s.cols[collection]
	if !ok {
		return []bson.Raw{}, nil
	}

	type row struct {
		raw bson.Raw
		doc bson.M
	}
	rows := make([]row, 0, len(c.order))
	for _, id := range c.order {
		raw := c.docs[id]
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("error decoding document %s: %v", id, err)
		}
		if matches(doc, q.Conditions) {
			rows = append(rows, row{raw: raw, doc: doc})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			cmp, _ := compareValues(rows[i].doc[q.OrderBy], rows[j].doc[q.OrderBy])
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	out := make([]bson.Raw, len(rows))
	for i, r := range rows {
		out[i] = r.raw
	}
	return out, nil
}

func matches(doc bson.M, conds []Condition) bool {
	for _, c := range conds {
		v, ok := doc[c.Field]
		if !ok {
			return false
		}
		cmp, comparable := compareValues(v, c.Value)
		if !comparable {
			return false
		}
		switch c.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGt:
			if cmp <= 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLt:
			if cmp >= 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders two scalar values of the same family. The second
// result is false when the values cannot be compared.
func compareValues(a, b any) (int, bool) {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case float64:
		y, ok := nb.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := nb.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := nb.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case time.Time:
		return float64(x.UnixMilli())
	case primitive.DateTime:
		return float64(x)
	case string, bool:
		return x
	}
	return nil
}

func decodeInto(docs []bson.Raw, out any) error {
	if raws, ok := out.(*[]bson.Raw); ok {
		*raws = append((*raws)[:0], docs...)
		return nil
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("query result must be a pointer to a slice, got %T", out)
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, raw := range docs {
		ptr := reflect.New(elemType)
		if err := bson.Unmarshal(raw, ptr.Interface()); err != nil {
			return fmt.Errorf("error decoding document: %v", err)
		}
		result = reflect.Append(result, ptr.Elem())
	}
	slice.Set(result)
	return nil
}
