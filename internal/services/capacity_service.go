package services

import (
	"context"
	"errors"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// CapacitySnapshot is the verified count of one event at one moment.
type CapacitySnapshot struct {
	EventID   string `json:"event_id"`
	Verified  int    `json:"verified"`
	Capacity  int    `json:"capacity"`
	SlotsLeft int    `json:"slots_left"`
	Full      bool   `json:"full"`
	Err       error  `json:"-"`
}

// CapacityService counts verified registrations. Counts are never cached;
// every read goes to the store.
type CapacityService struct {
	store models.DocumentStore
	bounded
}

func NewCapacityService(store models.DocumentStore, timeout time.Duration) *CapacityService {
	return &CapacityService{
		store:   store,
		bounded: newBounded(timeout),
	}
}

func verifiedQuery(eventID string) models.Query {
	return models.Where(models.FieldEventID, models.OpEq, eventID).
		Where(models.FieldVerified, models.OpEq, true)
}

func (cs *CapacityService) VerifiedCount(ctx context.Context, eventID string) (int, error) {
	cctx, cancel := cs.call(ctx)
	defer cancel()

	var docs []bson.Raw
	if err := cs.store.Query(cctx, models.RegistrationsCol, verifiedQuery(eventID), &docs); err != nil {
		return 0, gatewayError(cctx, ErrPersistence, "count verified registrations", err)
	}
	return len(docs), nil
}

// CountsByEvent fetches every verified registration once and buckets them
// by event. Every id in eventIDs is present in the result, with zero if
// nothing is verified for it.
func (cs *CapacityService) CountsByEvent(ctx context.Context, eventIDs []string) (map[string]int, error) {
	cctx, cancel := cs.call(ctx)
	defer cancel()

	var regs []struct {
		EventID string `bson:"event_id"`
	}
	q := models.Where(models.FieldVerified, models.OpEq, true)
	if err := cs.store.Query(cctx, models.RegistrationsCol, q, &regs); err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "count verified registrations", err)
	}

	counts := make(map[string]int, len(eventIDs))
	for _, id := range eventIDs {
		counts[id] = 0
	}
	for _, r := range regs {
		if _, wanted := counts[r.EventID]; wanted || len(eventIDs) == 0 {
			counts[r.EventID]++
		}
	}
	return counts, nil
}

// WatchVerified keeps listener informed of the verified count of one event
// until the returned Unsubscribe is called or ctx ends.
func (cs *CapacityService) WatchVerified(ctx context.Context, eventID string, listener func(CapacitySnapshot)) (models.Unsubscribe, error) {
	event, err := cs.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	unsubscribe, err := cs.store.Subscribe(ctx, models.RegistrationsCol, verifiedQuery(eventID), func(s models.Snapshot) {
		if s.Err != nil {
			listener(CapacitySnapshot{EventID: eventID, Capacity: event.Capacity, Err: s.Err})
			return
		}
		listener(NewCapacitySnapshot(event, s.Len()))
	})
	if err != nil {
		return nil, gatewayError(ctx, ErrPersistence, "subscribe to verified registrations", err)
	}
	return unsubscribe, nil
}

func NewCapacitySnapshot(event *models.Event, verified int) CapacitySnapshot {
	return CapacitySnapshot{
		EventID:   event.ID,
		Verified:  verified,
		Capacity:  event.Capacity,
		SlotsLeft: event.SlotsLeft(verified),
		Full:      event.IsFull(verified),
	}
}

func (cs *CapacityService) loadEvent(ctx context.Context, eventID string) (*models.Event, error) {
	cctx, cancel := cs.call(ctx)
	defer cancel()

	var event models.Event
	if err := cs.store.Get(cctx, models.EventsCol, eventID, &event); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, gatewayError(cctx, ErrPersistence, "load event", err)
	}
	return &event, nil
}
