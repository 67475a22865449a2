// Package mongo implements store.Store on top of the official MongoDB driver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/admindash/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connector hands out the shared database handle. *db.Manager satisfies it.
type Connector interface {
	Connect(ctx context.Context) (*mongo.Database, error)
}

// Observer records the outcome of a store operation.
type Observer interface {
	ObserveDB(op string, fn func() error) error
}

type Collection[T any] struct {
	conn   Connector
	obs    Observer
	name   string
	unique []string
}

func NewCollection[T any](conn Connector, obs Observer, name string, unique ...string) *Collection[T] {
	return &Collection[T]{conn: conn, obs: obs, name: name, unique: unique}
}

func (c *Collection[T]) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := c.conn.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(c.name), nil
}

func (c *Collection[T]) observe(op string, fn func() error) error {
	if c.obs == nil {
		return fn()
	}
	return c.obs.ObserveDB(c.name+"."+op, fn)
}

func (c *Collection[T]) List(ctx context.Context, q store.Query) ([]T, error) {
	out := make([]T, 0)

	err := c.observe("list", func() error {
		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}

		opts := options.Find()
		if len(q.Sort) > 0 {
			opts.SetSort(sortDoc(q.Sort))
		}

		cur, err := coll.Find(ctx, filterDoc(q.Filter), opts)
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		return cur.All(ctx, &out)
	})
	if err != nil {
		return nil, &store.OpError{Op: "list", Collection: c.name, Err: err}
	}
	return out, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T

	err := c.observe("insert", func() error {
		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}
		_, err = coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		return zero, c.mapErr("insert", err)
	}
	return doc, nil
}

func (c *Collection[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	return c.FindOne(ctx, "_id", id)
}

func (c *Collection[T]) FindOne(ctx context.Context, field string, value any) (T, error) {
	var out T

	err := c.observe("find_one", func() error {
		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}
		return coll.FindOne(ctx, bson.D{{Key: field, Value: value}}).Decode(&out)
	})
	if err != nil {
		var zero T
		return zero, c.mapErr("find "+field, err)
	}
	return out, nil
}

func (c *Collection[T]) Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error) {
	var out T

	err := c.observe("replace", func() error {
		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}
		opts := options.FindOneAndReplace().SetReturnDocument(options.After)
		return coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: id}}, doc, opts).Decode(&out)
	})
	if err != nil {
		var zero T
		return zero, c.mapErr("replace", err)
	}
	return out, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := c.observe("delete", func() error {
		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}
		res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return c.mapErr("delete", err)
	}
	return nil
}

// Upsert sets every field of doc on the matching document. _id and createdAt
// are only written when the document is created.
func (c *Collection[T]) Upsert(ctx context.Context, field string, value any, doc T) (T, error) {
	var out T

	err := c.observe("upsert", func() error {
		set, onInsert, err := splitForUpsert(doc)
		if err != nil {
			return err
		}

		coll, err := c.coll(ctx)
		if err != nil {
			return err
		}

		update := bson.D{{Key: "$set", Value: set}}
		if len(onInsert) > 0 {
			update = append(update, bson.E{Key: "$setOnInsert", Value: onInsert})
		}

		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After)

		return coll.FindOneAndUpdate(ctx, bson.D{{Key: field, Value: value}}, update, opts).Decode(&out)
	})
	if err != nil {
		var zero T
		return zero, c.mapErr("upsert", err)
	}
	return out, nil
}

func (c *Collection[T]) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, store.ErrNotFound):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &store.DuplicateError{Collection: c.name, Field: c.duplicateField(err)}
	default:
		return &store.OpError{Op: op, Collection: c.name, Err: err}
	}
}

// duplicateField recovers the field from the index name in the server message.
func (c *Collection[T]) duplicateField(err error) string {
	msg := err.Error()
	for _, field := range c.unique {
		if strings.Contains(msg, IndexName(field)) {
			return field
		}
	}
	if len(c.unique) == 1 {
		return c.unique[0]
	}
	return "value"
}

// IndexName is the name given to the unique index on field.
func IndexName(field string) string {
	return field + "_unique"
}

func filterDoc(conds []store.Cond) bson.D {
	f := bson.D{}
	for _, cond := range conds {
		f = append(f, bson.E{Key: cond.Field, Value: cond.Value})
	}
	return f
}

func sortDoc(keys []store.SortKey) bson.D {
	s := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		s = append(s, bson.E{Key: k.Field, Value: dir})
	}
	return s
}

func splitForUpsert(doc any) (set, onInsert bson.D, err error) {
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encode: %w", err)
	}

	var full bson.D
	if err := bson.Unmarshal(b, &full); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}

	for _, e := range full {
		switch e.Key {
		case "_id", "createdAt":
			onInsert = append(onInsert, e)
		default:
			set = append(set, e)
		}
	}
	return set, onInsert, nil
}
