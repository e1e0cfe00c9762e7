package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
	"github.com/devevent/backend/pkg/cache"
	"github.com/devevent/backend/pkg/response"
	"github.com/devevent/backend/pkg/storage"
)

const (
	listCacheKey     = "events:list"
	slugCachePrefix  = "events:slug:"
	imagePlaceholder = "pending-upload"
	maxFormMemory    = 32 << 20
)

// Store is the event persistence the handler needs.
type Store interface {
	CreateEvent(ctx context.Context, fields models.Event) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	FindSimilarBySlug(ctx context.Context, slug string, limit int) ([]models.Event, error)
	UpdateEvent(ctx context.Context, slug string, patch models.EventPatch) (*models.Event, error)
}

// ImageUploader hosts event images. A nil uploader means image storage is not configured.
type ImageUploader interface {
	UploadImage(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

// BookingCounter reports how many bookings an event has.
type BookingCounter interface {
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
}

// Handler handles event HTTP endpoints.
type Handler struct {
	store    Store
	images   ImageUploader
	bookings BookingCounter
	cache    *cache.Cache
	folder   string
	logger   *zap.Logger
}

// NewHandler creates an events handler. images, bookings and c may be nil.
func NewHandler(store Store, images ImageUploader, bookings BookingCounter, c *cache.Cache, folder string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, images: images, bookings: bookings, cache: c, folder: folder, logger: logger}
}

// List handles GET /events.
func (h *Handler) List(c *gin.Context) {
	list, err := cache.Remember(c.Request.Context(), h.cache, listCacheKey, h.store.ListAll)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "Event fetching failed", "Unexpected error")
		return
	}
	response.OK(c, "Events fetched successfully", gin.H{"events": list})
}

// GetBySlug handles GET /events/:slug.
func (h *Handler) GetBySlug(c *gin.Context) {
	slug, err := NormalizeSlugParam(c.Param("slug"))
	if err != nil {
		response.BadRequest(c, apperr.MessageOf(err, "Invalid slug parameter"))
		return
	}
	ctx := c.Request.Context()
	event, err := cache.Remember(ctx, h.cache, slugCachePrefix+slug, func(ctx context.Context) (*models.Event, error) {
		return h.store.FindBySlug(ctx, slug)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			response.NotFound(c, "Event not found")
			return
		}
		h.logger.Error("fetch event failed", zap.Error(err), zap.String("slug", slug))
		response.Internal(c, "Failed to fetch event", "Unexpected error")
		return
	}

	fields := gin.H{"event": event}
	if h.bookings != nil {
		count, err := h.bookings.CountByEvent(ctx, event.ID)
		if err != nil {
			h.logger.Warn("count bookings failed", zap.Error(err), zap.String("event_id", event.ID.String()))
		} else {
			fields["bookings"] = count
		}
	}
	response.OK(c, "Event fetched", fields)
}

// Similar handles GET /events/:slug/similar?limit=N.
func (h *Handler) Similar(c *gin.Context) {
	slug, err := NormalizeSlugParam(c.Param("slug"))
	if err != nil {
		response.BadRequest(c, apperr.MessageOf(err, "Invalid slug parameter"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.store.FindSimilarBySlug(c.Request.Context(), slug, ClampSimilarLimit(limit))
	if err != nil {
		h.logger.Error("similar events failed", zap.Error(err), zap.String("slug", slug))
		response.Internal(c, "Similar event fetching failed", "Unexpected error")
		return
	}
	response.OK(c, "Similar events fetched", gin.H{"events": list})
}

// Create handles POST /events. Multipart bodies carry the image file, which is
// uploaded before the event is stored; JSON bodies must reference an already hosted image URL.
func (h *Handler) Create(c *gin.Context) {
	const failed = "Event creation failed"
	if h.images == nil {
		response.Internal(c, failed, "Image storage is not configured")
		return
	}

	ctx := c.Request.Context()
	switch c.ContentType() {
	case gin.MIMEJSON:
		h.createFromJSON(c)
		return
	case gin.MIMEPOSTForm:
		response.Fail(c, http.StatusBadRequest, failed, "Multipart form-data required for image upload")
		return
	case gin.MIMEMultipartPOSTForm:
	default:
		response.UnsupportedMediaType(c, failed, "Unsupported Content-Type")
		return
	}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
		response.Fail(c, http.StatusBadRequest, failed, "Invalid form payload")
		return
	}
	fields := FieldsFromMap(FlattenForm(c.Request.PostForm))

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Image is required.")
		return
	}
	if file.Size > storage.MaxImageSize {
		response.Fail(c, http.StatusBadRequest, failed, "Image exceeds the 10MB limit")
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !storage.ValidateImageType(contentType, file.Filename) {
		response.Fail(c, http.StatusBadRequest, failed, "Image must be a jpg, png, webp, gif or avif file")
		return
	}

	// Reject bad payloads before anything reaches the image host.
	candidate := fields
	candidate.Image = imagePlaceholder
	if err := NormalizeAndValidate(&candidate); err != nil {
		response.Error(c, h.logger, failed, err)
		return
	}

	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded image failed", zap.Error(err))
		response.Internal(c, failed, "Failed to read image")
		return
	}
	defer rc.Close()

	url, err := h.images.UploadImage(ctx, h.folder, file.Filename, contentType, rc, file.Size)
	if err != nil {
		h.logger.Error("image upload failed", zap.Error(err), zap.String("filename", file.Filename))
		response.Internal(c, failed, "Image upload failed")
		return
	}
	fields.Image = url

	event, err := h.store.CreateEvent(ctx, fields)
	if err != nil {
		if derr := h.images.DeleteImage(context.WithoutCancel(ctx), url); derr != nil {
			h.logger.Warn("orphaned image cleanup failed", zap.Error(derr), zap.String("url", url))
		}
		response.Error(c, h.logger, failed, err)
		return
	}
	h.invalidate(ctx)
	response.Created(c, "Event created successfully", gin.H{"event": event})
}

func (h *Handler) createFromJSON(c *gin.Context) {
	const failed = "Event creation failed"
	var raw map[string]any
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		response.Fail(c, http.StatusBadRequest, failed, "Invalid JSON payload")
		return
	}
	fields := FieldsFromMap(raw)
	if !strings.HasPrefix(fields.Image, "https://") && !strings.HasPrefix(fields.Image, "http://") {
		response.Fail(c, http.StatusBadRequest, failed, "Multipart form-data required for image upload")
		return
	}
	event, err := h.store.CreateEvent(c.Request.Context(), fields)
	if err != nil {
		response.Error(c, h.logger, failed, err)
		return
	}
	h.invalidate(c.Request.Context())
	response.Created(c, "Event created successfully", gin.H{"event": event})
}

// Update handles PATCH /events/:slug.
func (h *Handler) Update(c *gin.Context) {
	const failed = "Event update failed"
	slug, err := NormalizeSlugParam(c.Param("slug"))
	if err != nil {
		response.BadRequest(c, apperr.MessageOf(err, "Invalid slug parameter"))
		return
	}
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Fail(c, http.StatusBadRequest, failed, "Invalid JSON payload")
		return
	}
	event, err := h.store.UpdateEvent(c.Request.Context(), slug, patch)
	if err != nil {
		response.Error(c, h.logger, failed, err)
		return
	}
	h.invalidate(c.Request.Context(), slug, event.Slug)
	response.OK(c, "Event updated successfully", gin.H{"event": event})
}

func (h *Handler) invalidate(ctx context.Context, slugs ...string) {
	if h.cache == nil {
		return
	}
	keys := []string{listCacheKey}
	for _, s := range slugs {
		keys = append(keys, slugCachePrefix+s)
	}
	if err := h.cache.Delete(ctx, keys...); err != nil {
		h.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
