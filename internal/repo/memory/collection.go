package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/geocoder89/admindash/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection keeps documents as encoded BSON so filters, sort keys and unique
// fields are read by their stored names, the same way the Mongo store sees them.
type Collection[T any] struct {
	mu     sync.RWMutex
	name   string
	unique []string
	items  map[primitive.ObjectID]bson.Raw
	order  []primitive.ObjectID // insertion order, the tie-breaker for sorting
}

func NewCollection[T any](name string, unique ...string) *Collection[T] {
	return &Collection[T]{
		name:   name,
		unique: unique,
		items:  make(map[primitive.ObjectID]bson.Raw),
	}
}

func (c *Collection[T]) List(ctx context.Context, q store.Query) ([]T, error) {
	c.mu.RLock()
	matched := make([]bson.Raw, 0, len(c.order))
	for _, id := range c.order {
		raw := c.items[id]
		if matches(raw, q.Filter) {
			matched = append(matched, raw)
		}
	}
	c.mu.RUnlock()

	if len(q.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], q.Sort)
		})
	}

	out := make([]T, 0, len(matched))
	for _, raw := range matched {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T

	raw, id, err := encode(doc)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return zero, &store.DuplicateError{Collection: c.name, Field: "_id"}
	}
	if err := c.checkUnique(raw, id); err != nil {
		return zero, err
	}

	c.items[id] = raw
	c.order = append(c.order, id)

	return decode[T](raw)
}

func (c *Collection[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	c.mu.RLock()
	raw, ok := c.items[id]
	c.mu.RUnlock()

	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return decode[T](raw)
}

func (c *Collection[T]) FindOne(ctx context.Context, field string, value any) (T, error) {
	var zero T

	c.mu.RLock()
	raw, ok := c.findLocked(field, value)
	c.mu.RUnlock()

	if !ok {
		return zero, store.ErrNotFound
	}
	return decode[T](raw)
}

func (c *Collection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error) {
	var zero T

	raw, docID, err := encode(doc)
	if err != nil {
		return zero, err
	}
	if docID != id {
		return zero, fmt.Errorf("memory: replacement _id %s does not match %s", docID.Hex(), id.Hex())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return zero, store.ErrNotFound
	}
	if err := c.checkUnique(raw, id); err != nil {
		return zero, err
	}

	c.items[id] = raw
	return decode[T](raw)
}

func (c *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return store.ErrNotFound
	}

	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) Upsert(ctx context.Context, field string, value any, doc T) (T, error) {
	var zero T

	raw, id, err := encode(doc)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, found := c.findLocked(field, value)
	if !found {
		if err := c.checkUnique(raw, id); err != nil {
			return zero, err
		}
		c.items[id] = raw
		c.order = append(c.order, id)
		return decode[T](raw)
	}

	// keep the identity of the stored document
	existingID := existing.Lookup("_id").ObjectID()
	raw, err = carryOver(raw, existing, "_id", "createdAt")
	if err != nil {
		return zero, err
	}
	if err := c.checkUnique(raw, existingID); err != nil {
		return zero, err
	}

	c.items[existingID] = raw
	return decode[T](raw)
}

func (c *Collection[T]) findLocked(field string, value any) (bson.Raw, bool) {
	cond := []store.Cond{{Field: field, Value: value}}
	for _, id := range c.order {
		if raw := c.items[id]; matches(raw, cond) {
			return raw, true
		}
	}
	return nil, false
}

func (c *Collection[T]) checkUnique(raw bson.Raw, id primitive.ObjectID) error {
	for _, field := range c.unique {
		val, err := raw.LookupErr(field)
		if err != nil {
			continue
		}
		for otherID, other := range c.items {
			if otherID == id {
				continue
			}
			if otherVal, err := other.LookupErr(field); err == nil && sameValue(val, otherVal) {
				return &store.DuplicateError{Collection: c.name, Field: field}
			}
		}
	}
	return nil
}

func encode(doc any) (bson.Raw, primitive.ObjectID, error) {
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("memory: encode: %w", err)
	}
	raw := bson.Raw(b)

	id, ok := raw.Lookup("_id").ObjectIDOK()
	if !ok || id.IsZero() {
		return nil, primitive.NilObjectID, errors.New("memory: document has no _id")
	}
	return raw, id, nil
}

func decode[T any](raw bson.Raw) (T, error) {
	var out T

	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(raw))
	if err != nil {
		return out, err
	}
	// match the client option used by the Mongo store
	dec.DefaultDocumentM()

	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("memory: decode: %w", err)
	}
	return out, nil
}

// carryOver copies the named top-level fields of src into dst.
func carryOver(dst, src bson.Raw, fields ...string) (bson.Raw, error) {
	var d bson.D
	if err := bson.Unmarshal(dst, &d); err != nil {
		return nil, err
	}

	for _, field := range fields {
		val, err := src.LookupErr(field)
		if err != nil {
			continue
		}
		replaced := false
		for i := range d {
			if d[i].Key == field {
				d[i].Value = val
				replaced = true
			}
		}
		if !replaced {
			d = append(d, bson.E{Key: field, Value: val})
		}
	}

	b, err := bson.Marshal(d)
	if err != nil {
		return nil, err
	}
	return bson.Raw(b), nil
}

func matches(raw bson.Raw, conds []store.Cond) bool {
	for _, cond := range conds {
		val, err := raw.LookupErr(cond.Field)
		if err != nil {
			return false
		}
		t, data, err := bson.MarshalValue(cond.Value)
		if err != nil {
			return false
		}
		if !sameValue(val, bson.RawValue{Type: t, Value: data}) {
			return false
		}
	}
	return true
}

func sameValue(a, b bson.RawValue) bool {
	if isNumber(a) && isNumber(b) {
		return number(a) == number(b)
	}
	return a.Type == b.Type && bytes.Equal(a.Value, b.Value)
}

func less(a, b bson.Raw, keys []store.SortKey) bool {
	for _, key := range keys {
		c := compare(a.Lookup(key.Field), b.Lookup(key.Field))
		if c == 0 {
			continue
		}
		if key.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// compare orders values of the types the collections sort on. Missing values
// sort first, as they do in Mongo.
func compare(a, b bson.RawValue) int {
	aMissing, bMissing := len(a.Value) == 0 && a.Type == 0, len(b.Value) == 0 && b.Type == 0
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return -1
	case bMissing:
		return 1
	}

	if isNumber(a) && isNumber(b) {
		return cmpOrdered(number(a), number(b))
	}

	if at, ok := a.DateTimeOK(); ok {
		if bt, ok := b.DateTimeOK(); ok {
			return cmpOrdered(at, bt)
		}
	}

	if as, ok := a.StringValueOK(); ok {
		if bs, ok := b.StringValueOK(); ok {
			return cmpOrdered(as, bs)
		}
	}

	if ab, ok := a.BooleanOK(); ok {
		if bb, ok := b.BooleanOK(); ok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}

	if aid, ok := a.ObjectIDOK(); ok {
		if bid, ok := b.ObjectIDOK(); ok {
			return bytes.Compare(aid[:], bid[:])
		}
	}

	return 0
}

func isNumber(v bson.RawValue) bool {
	_, i32 := v.Int32OK()
	_, i64 := v.Int64OK()
	_, f64 := v.DoubleOK()
	return i32 || i64 || f64
}

func number(v bson.RawValue) float64 {
	if n, ok := v.Int32OK(); ok {
		return float64(n)
	}
	if n, ok := v.Int64OK(); ok {
		return float64(n)
	}
	n, _ := v.DoubleOK()
	return n
}

func cmpOrdered[V int64 | float64 | string](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
