package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
	"github.com/devevent/backend/pkg/mailer"
	"github.com/devevent/backend/pkg/queue"
)

const dequeueTimeout = 5 * time.Second

// EventFinder loads the booked event.
type EventFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// JobQueue is the queue surface the processor consumes.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, string, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// BookingConfirmationProcessor sends the confirmation email for each new booking.
type BookingConfirmationProcessor struct {
	events    EventFinder
	mailer    mailer.Mailer
	queue     JobQueue
	publicURL string
	backoff   time.Duration
	logger    *zap.Logger
}

// NewBookingConfirmationProcessor creates a booking confirmation processor.
// publicURL is the site origin used to link back to the event page.
func NewBookingConfirmationProcessor(events EventFinder, m mailer.Mailer, q JobQueue, publicURL string, logger *zap.Logger) *BookingConfirmationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingConfirmationProcessor{
		events:    events,
		mailer:    m,
		queue:     q,
		publicURL: publicURL,
		backoff:   queue.RetryBackoff,
		logger:    logger,
	}
}

// Process executes one booking confirmation job.
func (p *BookingConfirmationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeBookingConfirmation {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.BookingConfirmationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	event, err := p.events.FindByID(ctx, payload.EventID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			p.logger.Warn("booked event no longer exists", zap.String("event_id", payload.EventID.String()))
			return nil
		}
		return fmt.Errorf("load event: %w", err)
	}

	data := mailer.BookingConfirmation{
		Email:    payload.Email,
		Title:    event.Title,
		Date:     displayDate(event.Date),
		Time:     event.Time,
		Venue:    event.Venue,
		Location: event.Location,
		Mode:     event.Mode,
	}
	if p.publicURL != "" {
		data.EventURL = p.publicURL + "/events/" + event.Slug
	}
	subject, html, text, err := mailer.Render("booking_confirmation", data)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := p.mailer.Send(ctx, payload.Email, subject, html, text); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	p.logger.Info("booking confirmation sent",
		zap.String("booking_id", payload.BookingID.String()),
		zap.String("event_id", payload.EventID.String()),
	)
	return nil
}

func displayDate(stored string) string {
	t, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return stored
	}
	return t.Format("Monday, January 2, 2006")
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *BookingConfirmationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("booking confirmation worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *BookingConfirmationProcessor) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(p.backoff):
	}
}
