// Package store defines the collection contract shared by the Mongo and
// in-memory repositories, along with the errors handlers map to HTTP codes.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateError reports a unique index violation on Field.
type DuplicateError struct {
	Collection string
	Field      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// OpError is a backend failure of one store operation. Error includes the
// operation and collection for logs, Err is what callers show to clients.
type OpError struct {
	Op         string
	Collection string
	Err        error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Cond is a single equality condition on a stored field.
type Cond struct {
	Field string
	Value any
}

type SortKey struct {
	Field string
	Desc  bool
}

type Query struct {
	Filter []Cond
	Sort   []SortKey
}

// Store is a single collection of documents of type T.
type Store[T any] interface {
	// List never returns a nil slice.
	List(ctx context.Context, q Query) ([]T, error)
	Insert(ctx context.Context, doc T) (T, error)
	Get(ctx context.Context, id primitive.ObjectID) (T, error)
	FindOne(ctx context.Context, field string, value any) (T, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Upsert replaces the document where field == value, or inserts doc.
	// An existing document keeps its _id and createdAt.
	Upsert(ctx context.Context, field string, value any, doc T) (T, error)
}

func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
