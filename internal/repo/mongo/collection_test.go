package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/admindash/internal/db"
	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSortDoc(t *testing.T) {
	got := sortDoc([]store.SortKey{{Field: "order"}, {Field: "createdAt", Desc: true}})
	assert.Equal(t, bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}, got)
}

func TestFilterDocEmptyMatchesAll(t *testing.T) {
	assert.Equal(t, bson.D{}, filterDoc(nil))

	f := filterDoc([]store.Cond{{Field: "status", Value: "active"}})
	assert.Equal(t, bson.D{{Key: "status", Value: "active"}}, f)
}

func TestSplitForUpsertKeepsIdentityOnInsertOnly(t *testing.T) {
	s := settings.NewFromUpsertRequest(settings.TypeGeneral, settings.UpsertRequest{}, time.Now())

	set, onInsert, err := splitForUpsert(s)
	require.NoError(t, err)

	keys := func(d bson.D) []string {
		out := make([]string, 0, len(d))
		for _, e := range d {
			out = append(out, e.Key)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"_id", "createdAt"}, keys(onInsert))
	assert.ElementsMatch(t, []string{"updatedAt", "type", "values", "description"}, keys(set))
}

func TestMapErr(t *testing.T) {
	c := NewCollection[user.User](nil, nil, user.Collection, user.UniqueFields...)

	assert.ErrorIs(t, c.mapErr("find", mongo.ErrNoDocuments), store.ErrNotFound)

	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: admindash.users index: email_unique dup key",
	}}}
	err := c.mapErr("insert", dupErr)

	var dup *store.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "email already exists", err.Error())

	other := c.mapErr("insert", errors.New("boom"))
	assert.EqualError(t, other, "insert users: boom")

	var opErr *store.OpError
	require.True(t, errors.As(other, &opErr))
	assert.EqualError(t, opErr.Err, "boom")
}

type failingConnector struct{ err error }

func (f failingConnector) Connect(context.Context) (*mongo.Database, error) { return nil, f.err }

type countingObserver struct{ ops []string }

func (o *countingObserver) ObserveDB(op string, fn func() error) error {
	o.ops = append(o.ops, op)
	return fn()
}

func TestConnectionErrorPassesThrough(t *testing.T) {
	connErr := &db.ConnectionError{Err: errors.New("no reachable servers")}
	obs := &countingObserver{}
	c := NewCollection[user.User](failingConnector{err: connErr}, obs, user.Collection)

	_, err := c.List(context.Background(), store.Query{})
	require.Error(t, err)

	var ce *db.ConnectionError
	assert.True(t, errors.As(err, &ce))
	assert.Contains(t, err.Error(), "no reachable servers")
	assert.Equal(t, []string{"users.list"}, obs.ops)
}

// The tests below need a live server: TEST_MONGO_URI=mongodb://localhost:27017
func newTestManager(t *testing.T) *db.Manager {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	m := db.NewManager(db.Config{
		URI:            uri,
		Database:       fmt.Sprintf("admindash_test_%d", time.Now().UnixNano()),
		ConnectTimeout: 5 * time.Second,
	}, nil)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if d, err := m.Connect(ctx); err == nil {
			_ = d.Drop(ctx)
		}
		_ = m.Disconnect(ctx)
	})
	return m
}

func TestIntegrationUsersUniqueEmail(t *testing.T) {
	m := newTestManager(t)
	stores := NewStores(m, nil)
	ctx := context.Background()

	u := user.User{Base: domain.NewBase(time.Now()), Name: "Ann", Email: "ann@example.com", Role: user.RoleUser, Status: user.StatusActive}
	_, err := stores.Users.Insert(ctx, u)
	require.NoError(t, err)

	u.ID = primitive.NewObjectID()
	_, err = stores.Users.Insert(ctx, u)
	var dup *store.DuplicateError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "email", dup.Field)

	all, err := stores.Users.List(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIntegrationCRUD(t *testing.T) {
	m := newTestManager(t)
	stores := NewStores(m, nil)
	ctx := context.Background()

	u := user.User{Base: domain.NewBase(time.Now()), Name: "Ann", Email: "ann@example.com", Role: user.RoleUser, Status: user.StatusActive}
	_, err := stores.Users.Insert(ctx, u)
	require.NoError(t, err)

	u.Name = "Annie"
	got, err := stores.Users.Replace(ctx, u.ID, u)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)

	require.NoError(t, stores.Users.Delete(ctx, u.ID))
	assert.ErrorIs(t, stores.Users.Delete(ctx, u.ID), store.ErrNotFound)

	_, err = stores.Users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIntegrationSettingsUpsert(t *testing.T) {
	m := newTestManager(t)
	stores := NewStores(m, nil)
	ctx := context.Background()

	first, err := stores.Settings.Upsert(ctx, "type", settings.TypeEmail, settings.NewFromUpsertRequest(
		settings.TypeEmail, settings.UpsertRequest{Values: map[string]any{"smtpHost": "a"}}, time.Now()))
	require.NoError(t, err)

	second, err := stores.Settings.Upsert(ctx, "type", settings.TypeEmail, settings.NewFromUpsertRequest(
		settings.TypeEmail, settings.UpsertRequest{Values: map[string]any{"smtpHost": "b"}}, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "b", second.Values["smtpHost"])

	all, err := stores.Settings.List(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
