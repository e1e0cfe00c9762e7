package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
	"github.com/devevent/backend/pkg/database"
)

const (
	// DefaultSimilarLimit is used when the caller passes no usable limit.
	DefaultSimilarLimit = 3
	// MaxSimilarLimit caps similar-event results.
	MaxSimilarLimit = 6

	slugConstraint = "events_slug_key"
	eventColumns   = `id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`
)

var errSlugTaken = apperr.Conflict("An event with this title already exists")

// Repository handles event persistence.
type Repository struct {
	db database.Connector
}

// NewRepository creates an event repository.
func NewRepository(db database.Connector) *Repository {
	return &Repository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &e.Mode, &e.Audience, &e.Agenda, &e.Organizer, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEvent validates and normalizes fields, derives the slug and inserts.
// A taken slug is reported by the unique index, not a prior lookup.
func (r *Repository) CreateEvent(ctx context.Context, fields models.Event) (*models.Event, error) {
	e := fields
	if err := NormalizeAndValidate(&e); err != nil {
		return nil, err
	}
	e.Slug = Slugify(e.Title)
	if e.Slug == "" {
		return nil, apperr.Validation("Title must contain letters or digits")
	}
	e.ID = uuid.New()

	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	const q = `INSERT INTO events (id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`
	err = db.QueryRow(ctx, q, e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, e.Agenda, e.Organizer, e.Tags).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, slugConstraint) {
			return nil, errSlugTaken
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &e, nil
}

// FindBySlug returns the event for slug, matched after trimming and lower-casing.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	normalized, err := NormalizeSlugParam(slug)
	if err != nil {
		return nil, err
	}
	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	e, err := scanEvent(db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, normalized))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}

// FindByID returns the event with id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	e, err := scanEvent(db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}

// ListAll returns every event, most recently created first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Event, error) {
	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	rows, err := db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	list := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// FindSimilarBySlug returns up to limit other events sharing tags with the
// event at slug. A missing source event yields an empty list.
func (r *Repository) FindSimilarBySlug(ctx context.Context, slug string, limit int) ([]models.Event, error) {
	source, err := r.FindBySlug(ctx, slug)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) || apperr.Is(err, apperr.KindValidation) {
			return []models.Event{}, nil
		}
		return nil, err
	}

	tags := make([]string, 0, len(source.Tags))
	for _, t := range source.Tags {
		tags = append(tags, strings.ToLower(t))
	}

	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	const q = `SELECT ` + eventColumns + ` FROM events e
		WHERE e.id <> $1 AND EXISTS (SELECT 1 FROM unnest(e.tags) t WHERE lower(t) = ANY($2))`
	rows, err := db.Query(ctx, q, source.ID, tags)
	if err != nil {
		return nil, fmt.Errorf("select similar events: %w", err)
	}
	defer rows.Close()

	var candidates []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		candidates = append(candidates, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return RankSimilar(source, candidates, limit), nil
}

// UpdateEvent applies patch to the event at slug. The slug is regenerated only
// when the title changes, so other edits never move a published URL.
func (r *Repository) UpdateEvent(ctx context.Context, slug string, patch models.EventPatch) (*models.Event, error) {
	current, err := r.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	previousTitle := current.Title

	updated := *current
	patch.Apply(&updated)
	if err := NormalizeAndValidate(&updated); err != nil {
		return nil, err
	}
	if updated.Title != previousTitle {
		updated.Slug = Slugify(updated.Title)
		if updated.Slug == "" {
			return nil, apperr.Validation("Title must contain letters or digits")
		}
	}

	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	const q = `UPDATE events SET title = $2, slug = $3, description = $4, overview = $5, image = $6, venue = $7,
		location = $8, date = $9, time = $10, mode = $11, audience = $12, agenda = $13, organizer = $14, tags = $15,
		updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err = db.QueryRow(ctx, q, updated.ID, updated.Title, updated.Slug, updated.Description, updated.Overview, updated.Image,
		updated.Venue, updated.Location, updated.Date, updated.Time, updated.Mode, updated.Audience, updated.Agenda,
		updated.Organizer, updated.Tags).
		Scan(&updated.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, slugConstraint) {
			return nil, errSlugTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &updated, nil
}
