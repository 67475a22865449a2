package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/admindash/internal/cache"
	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/gin-gonic/gin"
)

// Filter maps one query-string parameter onto an equality condition.
type Filter struct {
	Param string
	Field string
	Parse func(raw string) (any, error)
}

func EnumFilter(param, field string, allowed []string) Filter {
	return Filter{
		Param: param,
		Field: field,
		Parse: func(raw string) (any, error) {
			if !slices.Contains(allowed, raw) {
				return nil, fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
			}
			return raw, nil
		},
	}
}

func BoolFilter(param, field string) Filter {
	return Filter{
		Param: param,
		Field: field,
		Parse: func(raw string) (any, error) {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("must be true or false")
			}
			return b, nil
		},
	}
}

func IDFilter(param, field string) Filter {
	return Filter{
		Param: param,
		Field: field,
		Parse: func(raw string) (any, error) {
			id, err := store.ParseID(raw)
			if err != nil {
				return nil, err
			}
			return id, nil
		},
	}
}

// Resource describes one entity exposed under /api. T is the stored
// document, C the create payload and U the partial update payload.
type Resource[T any, C any, U any] struct {
	Name       string // singular, used in messages
	Collection string
	Filters    []Filter
	Sort       []store.SortKey
	New        func(req C, now time.Time) (T, error)
	Merge      func(doc *T, req U, now time.Time) error
}

// CacheObserver receives list cache hits and misses.
type CacheObserver interface {
	ObserveCache(collection string, hit bool)
}

// Options are shared by every resource handler.
type Options struct {
	Cache   cache.Cache // nil disables list caching
	Timeout time.Duration
	Metrics CacheObserver
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

type ResourceHandler[T any, C any, U any] struct {
	res   Resource[T, C, U]
	store store.Store[T]
	opts  Options
}

func NewResourceHandler[T any, C any, U any](res Resource[T, C, U], s store.Store[T], opts Options) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{res: res, store: s, opts: opts.withDefaults()}
}

// Register mounts the collection and item routes on g.
func (h *ResourceHandler[T, C, U]) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ResourceHandler[T, C, U]) notFound() string {
	return h.res.Name + " not found"
}

// query builds the store query from the request. Unknown parameters are
// ignored, bad values of known ones are a 400.
func (h *ResourceHandler[T, C, U]) query(ctx *gin.Context) (store.Query, bool) {
	q := store.Query{Sort: h.res.Sort}

	for _, f := range h.res.Filters {
		raw := strings.TrimSpace(ctx.Query(f.Param))
		if raw == "" {
			continue
		}

		v, err := f.Parse(raw)
		if err != nil {
			RespondBadRequest(ctx, fmt.Sprintf("Invalid value for %s", f.Param), gin.H{
				"field":  f.Param,
				"reason": err.Error(),
			})
			return store.Query{}, false
		}
		q.Filter = append(q.Filter, store.Cond{Field: f.Field, Value: v})
	}

	return q, true
}

func (h *ResourceHandler[T, C, U]) List(ctx *gin.Context) {
	q, ok := h.query(ctx)
	if !ok {
		return
	}

	// the generation is read before the store so a write that lands while
	// the query runs moves later reads to a fresh key
	key, cacheable := "", false
	if h.opts.Cache != nil {
		var gen uint64
		gen, cacheable = h.opts.Cache.Generation(ctx.Request.Context(), cache.Prefix(h.res.Collection))
		key = cache.ListKey(h.res.Collection, gen, q.Filter)
	}
	if cacheable {
		body, hit := h.opts.Cache.Get(ctx.Request.Context(), key)
		h.observeCache(hit)
		if hit {
			RespondBytesWithETag(ctx, http.StatusOK, body)
			return
		}
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	items, err := h.store.List(c, q)
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	count := len(items)
	body, err := json.Marshal(Envelope{Success: true, Data: items, Count: &count})
	if err != nil {
		RespondInternal(ctx, err.Error())
		return
	}

	if cacheable {
		h.opts.Cache.Set(ctx.Request.Context(), key, body)
	}

	RespondBytesWithETag(ctx, http.StatusOK, body)
}

func (h *ResourceHandler[T, C, U]) Get(ctx *gin.Context) {
	id, err := store.ParseID(ctx.Param("id"))
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	doc, err := h.store.Get(c, id)
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, Envelope{Success: true, Data: doc})
}

func (h *ResourceHandler[T, C, U]) Create(ctx *gin.Context) {
	var req C
	if !BindJSON(ctx, &req) {
		return
	}

	doc, err := h.res.New(req, h.opts.Now())
	if err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}
	if !ValidateEntity(ctx, &doc) {
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	created, err := h.store.Insert(c, doc)
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	h.invalidate(ctx)
	RespondData(ctx, http.StatusCreated, created, h.res.Name+" created successfully")
}

// Update merges the partial payload into the stored document and replaces it
// once the merged result passes validation.
func (h *ResourceHandler[T, C, U]) Update(ctx *gin.Context) {
	id, err := store.ParseID(ctx.Param("id"))
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	var req U
	if !BindJSON(ctx, &req) {
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	doc, err := h.store.Get(c, id)
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	if err := h.res.Merge(&doc, req, h.opts.Now()); err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}
	if !ValidateEntity(ctx, &doc) {
		return
	}

	updated, err := h.store.Replace(c, id, doc)
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	h.invalidate(ctx)
	RespondData(ctx, http.StatusOK, updated, h.res.Name+" updated successfully")
}

func (h *ResourceHandler[T, C, U]) Delete(ctx *gin.Context) {
	id, err := store.ParseID(ctx.Param("id"))
	if err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	if err := h.store.Delete(c, id); err != nil {
		RespondStoreError(ctx, err, h.notFound())
		return
	}

	h.invalidate(ctx)
	RespondMessage(ctx, http.StatusOK, h.res.Name+" deleted successfully")
}

func (h *ResourceHandler[T, C, U]) invalidate(ctx *gin.Context) {
	if h.opts.Cache != nil {
		h.opts.Cache.DeletePrefix(ctx.Request.Context(), cache.Prefix(h.res.Collection))
	}
}

func (h *ResourceHandler[T, C, U]) observeCache(hit bool) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.ObserveCache(h.res.Collection, hit)
	}
}
