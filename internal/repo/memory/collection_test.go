package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/domain/faq"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(name, email, status string, at time.Time) user.User {
	return user.User{
		Base:   domain.NewBase(at),
		Name:   name,
		Email:  email,
		Role:   user.RoleUser,
		Status: status,
	}
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection, user.UniqueFields...)

	u := newUser("Ann", "ann@example.com", user.StatusActive, time.Now())
	created, err := c.Insert(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, u.ID, created.ID)

	got, err := c.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, user.StatusActive, got.Status)
}

func TestGetMissing(t *testing.T) {
	c := NewCollection[user.User](user.Collection)

	_, err := c.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertDuplicateUniqueField(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection, user.UniqueFields...)

	_, err := c.Insert(ctx, newUser("Ann", "ann@example.com", user.StatusActive, time.Now()))
	require.NoError(t, err)

	_, err = c.Insert(ctx, newUser("Other Ann", "ann@example.com", user.StatusPending, time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	var dup *store.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)

	all, err := c.List(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListFilterAndSort(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection, user.UniqueFields...)
	base := time.Now().Add(-time.Hour)

	for i, u := range []user.User{
		newUser("a", "a@example.com", user.StatusActive, base),
		newUser("b", "b@example.com", user.StatusPending, base.Add(time.Minute)),
		newUser("c", "c@example.com", user.StatusActive, base.Add(2*time.Minute)),
	} {
		_, err := c.Insert(ctx, u)
		require.NoError(t, err, i)
	}

	got, err := c.List(ctx, store.Query{
		Filter: []store.Cond{{Field: "status", Value: user.StatusActive}},
		Sort:   []store.SortKey{{Field: "createdAt", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "a", got[1].Name)
}

func TestListEmptyIsNotNil(t *testing.T) {
	c := NewCollection[user.User](user.Collection)

	got, err := c.List(context.Background(), store.Query{
		Filter: []store.Cond{{Field: "status", Value: "nope"}},
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListSortsNumbersThenTime(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[faq.FAQ](faq.Collection)
	now := time.Now()

	mk := func(q string, order int, at time.Time) faq.FAQ {
		return faq.FAQ{Base: domain.NewBase(at), Question: q, Answer: "x", Category: faq.CategoryGeneral, Order: order, IsActive: true}
	}
	for _, f := range []faq.FAQ{
		mk("second", 2, now),
		mk("first-old", 1, now.Add(-time.Minute)),
		mk("first-new", 1, now),
	} {
		_, err := c.Insert(ctx, f)
		require.NoError(t, err)
	}

	got, err := c.List(ctx, store.Query{Sort: []store.SortKey{
		{Field: "order"},
		{Field: "createdAt", Desc: true},
	}})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first-new", "first-old", "second"},
		[]string{got[0].Question, got[1].Question, got[2].Question})
}

func TestListFilterOnBool(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[faq.FAQ](faq.Collection)

	on := faq.FAQ{Base: domain.NewBase(time.Now()), Question: "on", Answer: "x", Category: faq.CategoryGeneral, IsActive: true}
	off := faq.FAQ{Base: domain.NewBase(time.Now()), Question: "off", Answer: "x", Category: faq.CategoryGeneral}
	_, err := c.Insert(ctx, on)
	require.NoError(t, err)
	_, err = c.Insert(ctx, off)
	require.NoError(t, err)

	got, err := c.List(ctx, store.Query{Filter: []store.Cond{{Field: "isActive", Value: false}}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "off", got[0].Question)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection, user.UniqueFields...)

	ann := newUser("Ann", "ann@example.com", user.StatusActive, time.Now())
	bob := newUser("Bob", "bob@example.com", user.StatusActive, time.Now())
	for _, u := range []user.User{ann, bob} {
		_, err := c.Insert(ctx, u)
		require.NoError(t, err)
	}

	ann.Name = "Annie"
	got, err := c.Replace(ctx, ann.ID, ann)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)

	bob.Email = "ann@example.com"
	_, err = c.Replace(ctx, bob.ID, bob)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	stored, err := c.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", stored.Email)

	ghost := newUser("Ghost", "ghost@example.com", user.StatusActive, time.Now())
	_, err = c.Replace(ctx, ghost.ID, ghost)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection)

	u := newUser("Ann", "ann@example.com", user.StatusActive, time.Now())
	_, err := c.Insert(ctx, u)
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, u.ID))
	assert.ErrorIs(t, c.Delete(ctx, u.ID), store.ErrNotFound)

	all, err := c.List(ctx, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindOne(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[user.User](user.Collection)

	u := newUser("Ann", "ann@example.com", user.StatusActive, time.Now())
	_, err := c.Insert(ctx, u)
	require.NoError(t, err)

	got, err := c.FindOne(ctx, "email", "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = c.FindOne(ctx, "email", "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertCreatesThenReplaces(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[settings.Settings](settings.Collection, settings.UniqueFields...)
	first := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

	created, err := c.Upsert(ctx, "type", settings.TypeGeneral, settings.NewFromUpsertRequest(
		settings.TypeGeneral,
		settings.UpsertRequest{Values: map[string]any{"siteName": "A"}},
		first,
	))
	require.NoError(t, err)

	later := time.Now().Truncate(time.Millisecond)
	replaced, err := c.Upsert(ctx, "type", settings.TypeGeneral, settings.NewFromUpsertRequest(
		settings.TypeGeneral,
		settings.UpsertRequest{Values: map[string]any{"siteName": "B"}},
		later,
	))
	require.NoError(t, err)

	assert.Equal(t, created.ID, replaced.ID)
	assert.True(t, replaced.CreatedAt.Equal(first))
	assert.True(t, replaced.UpdatedAt.Equal(later))
	assert.Equal(t, "B", replaced.Values["siteName"])

	all, err := c.List(ctx, store.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNewStoresWiresUniqueFields(t *testing.T) {
	ctx := context.Background()
	s := NewStores()

	u := newUser("Ann", "ann@example.com", user.StatusActive, time.Now())
	_, err := s.Users.Insert(ctx, u)
	require.NoError(t, err)

	u.ID = primitive.NewObjectID()
	_, err = s.Users.Insert(ctx, u)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}
