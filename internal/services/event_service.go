package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/models"
)

// EventAssets are the optional images sent with an event form.
type EventAssets struct {
	Poster *Upload
	QRCode *Upload
}

type EventService struct {
	store    models.DocumentStore
	uploader Uploader
	capacity *CapacityService
	logger   *slog.Logger
	bounded
}

func NewEventService(store models.DocumentStore, uploader Uploader, capacity *CapacityService, logger *slog.Logger, timeout time.Duration) *EventService {
	return &EventService{
		store:    store,
		uploader: uploader,
		capacity: capacity,
		logger:   logger,
		bounded:  newBounded(timeout),
	}
}

func (es *EventService) uploadAssets(ctx context.Context, event *models.Event, assets EventAssets) error {
	if assets.Poster != nil && assets.Poster.Content != nil {
		url, err := es.upload(ctx, es.uploader, assets.Poster, helpers.PostersFolder)
		if err != nil {
			return err
		}
		event.ImageURL = url
	}
	if assets.QRCode != nil && assets.QRCode.Content != nil {
		url, err := es.upload(ctx, es.uploader, assets.QRCode, helpers.QRCodesFolder)
		if err != nil {
			return err
		}
		event.QRCodeURL = url
	}
	return nil
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, assets EventAssets) (*models.Event, error) {
	event.ID = ""
	event.ApplyDefaults()
	if err := models.Validate.Struct(event); err != nil {
		return nil, invalidInput(err)
	}
	if event.IsPaid() && assets.QRCode == nil && event.QRCodeURL == "" {
		es.logger.Warn("paid event created without a payment QR code", "title", event.Title)
	}

	if err := es.uploadAssets(ctx, event, assets); err != nil {
		return nil, err
	}

	now := es.now()
	event.CreatedAt = now
	event.UpdatedAt = now

	cctx, cancel := es.call(ctx)
	defer cancel()
	id, err := es.store.Create(cctx, models.EventsCol, event)
	if err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "create event", err)
	}
	event.ID = id

	es.logger.Info("event created", "event_id", id, "title", event.Title)
	return event, nil
}

// UpdateEvent replaces the editable fields of an event. Images not re-sent
// keep their previous URL.
func (es *EventService) UpdateEvent(ctx context.Context, id string, event *models.Event, assets EventAssets) (*models.Event, error) {
	existing, err := es.capacity.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.ID = id
	event.ApplyDefaults()
	if err := models.Validate.Struct(event); err != nil {
		return nil, invalidInput(err)
	}
	if event.ImageURL == "" {
		event.ImageURL = existing.ImageURL
	}
	if event.QRCodeURL == "" {
		event.QRCodeURL = existing.QRCodeURL
	}
	if err := es.uploadAssets(ctx, event, assets); err != nil {
		return nil, err
	}
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = es.now()

	fields, err := models.ToDocument(event)
	if err != nil {
		return nil, invalidInput(err)
	}
	delete(fields, "_id")

	cctx, cancel := es.call(ctx)
	defer cancel()
	if err := es.store.Update(cctx, models.EventsCol, id, fields); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, gatewayError(cctx, ErrPersistence, "update event", err)
	}

	es.logger.Info("event updated", "event_id", id)
	return event, nil
}

// DeleteEvent removes the event only; its registrations stay for the record.
func (es *EventService) DeleteEvent(ctx context.Context, id string) error {
	cctx, cancel := es.call(ctx)
	defer cancel()

	if err := es.store.Delete(cctx, models.EventsCol, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrEventNotFound
		}
		return gatewayError(cctx, ErrPersistence, "delete event", err)
	}
	es.logger.Info("event deleted", "event_id", id)
	return nil
}

func (es *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return es.query(ctx, models.Query{}.Order(models.FieldTitle, false))
}

// UpcomingEvents are those whose registration has not ended, soonest first.
func (es *EventService) UpcomingEvents(ctx context.Context) ([]models.Event, error) {
	q := models.Where(models.FieldEndTime, models.OpGte, es.now()).Order(models.FieldEndTime, false)
	return es.query(ctx, q)
}

func (es *EventService) query(ctx context.Context, q models.Query) ([]models.Event, error) {
	cctx, cancel := es.call(ctx)
	defer cancel()

	events := []models.Event{}
	if err := es.store.Query(cctx, models.EventsCol, q, &events); err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "list events", err)
	}
	return events, nil
}

// GetEvent returns an event along with its current registration status.
func (es *EventService) GetEvent(ctx context.Context, id string) (*models.EventStatus, error) {
	event, err := es.capacity.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	verified, err := es.capacity.VerifiedCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewEventStatus(event, verified, es.now()), nil
}

// Summary lists every event with its verified count for the admin dashboard.
func (es *EventService) Summary(ctx context.Context) ([]*models.EventStatus, error) {
	events, err := es.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	counts, err := es.capacity.CountsByEvent(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := es.now()
	out := make([]*models.EventStatus, len(events))
	for i := range events {
		out[i] = models.NewEventStatus(&events[i], counts[events[i].ID], now)
	}
	return out, nil
}
