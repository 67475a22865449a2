package handlers

import (
	"net/http"
	"time"

	"github.com/geocoder89/admindash/internal/cache"
	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves one document per settings type. Writes go through
// upsert on the type discriminator, there is no delete.
type SettingsHandler struct {
	list  *ResourceHandler[settings.Settings, settings.UpsertRequest, settings.UpsertRequest]
	store store.Store[settings.Settings]
	opts  Options
}

func NewSettingsHandler(s store.Store[settings.Settings], opts Options) *SettingsHandler {
	res := Resource[settings.Settings, settings.UpsertRequest, settings.UpsertRequest]{
		Name:       "Settings",
		Collection: settings.Collection,
		Filters:    []Filter{EnumFilter("type", "type", settings.Types)},
		Sort:       []store.SortKey{{Field: "type"}},
	}

	return &SettingsHandler{
		list:  NewResourceHandler(res, s, opts),
		store: s,
		opts:  opts.withDefaults(),
	}
}

func (h *SettingsHandler) Register(g *gin.RouterGroup) {
	g.GET("", h.list.List)
	g.POST("", h.Save)
	g.GET("/:type", h.GetByType)
	g.PUT("/:type", h.SaveByType)
}

func (h *SettingsHandler) kindFromPath(ctx *gin.Context) (string, bool) {
	kind := settings.NormalizeType(ctx.Param("type"))
	if !settings.IsType(kind) {
		RespondBadRequest(ctx, "Invalid settings type", gin.H{"allowed": settings.Types})
		return "", false
	}
	return kind, true
}

func (h *SettingsHandler) GetByType(ctx *gin.Context) {
	kind, ok := h.kindFromPath(ctx)
	if !ok {
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	doc, err := h.store.FindOne(c, "type", kind)
	if err != nil {
		RespondStoreError(ctx, err, "Settings not found")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, Envelope{Success: true, Data: doc})
}

// SaveByType replaces or creates the settings for the type in the path.
func (h *SettingsHandler) SaveByType(ctx *gin.Context) {
	kind, ok := h.kindFromPath(ctx)
	if !ok {
		return
	}

	var req settings.UpsertRequest
	if !BindJSON(ctx, &req) {
		return
	}
	if req.Type != "" && req.Type != kind {
		RespondBadRequest(ctx, "type in body does not match the path", nil)
		return
	}

	h.upsert(ctx, kind, req)
}

// Save takes the type from the body.
func (h *SettingsHandler) Save(ctx *gin.Context) {
	var req settings.UpsertRequest
	if !BindJSON(ctx, &req) {
		return
	}

	kind := settings.NormalizeType(req.Type)
	if kind == "" {
		RespondBadRequest(ctx, "type is required", nil)
		return
	}

	h.upsert(ctx, kind, req)
}

func (h *SettingsHandler) upsert(ctx *gin.Context, kind string, req settings.UpsertRequest) {
	doc := settings.NewFromUpsertRequest(kind, req, h.now())
	if !ValidateEntity(ctx, &doc) {
		return
	}

	c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
	defer cancel()

	saved, err := h.store.Upsert(c, "type", kind, doc)
	if err != nil {
		RespondStoreError(ctx, err, "Settings not found")
		return
	}

	if h.opts.Cache != nil {
		h.opts.Cache.DeletePrefix(ctx.Request.Context(), cache.Prefix(settings.Collection))
	}
	RespondData(ctx, http.StatusOK, saved, "Settings saved successfully")
}

func (h *SettingsHandler) now() time.Time {
	return h.opts.Now()
}
