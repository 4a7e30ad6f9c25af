package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/models"
)

// RegistrationRequest is what a registrant submits for one event.
type RegistrationRequest struct {
	Lead          models.Lead     `json:"lead"`
	TeamMembers   []models.Member `json:"team_members" validate:"dive"`
	TransactionID string          `json:"transaction_id"`
	ProofImage    *Upload         `json:"-"`
}

type RegistrationService struct {
	store    models.DocumentStore
	uploader Uploader
	capacity *CapacityService
	logger   *slog.Logger
	bounded
}

func NewRegistrationService(store models.DocumentStore, uploader Uploader, capacity *CapacityService, logger *slog.Logger, timeout time.Duration) *RegistrationService {
	return &RegistrationService{
		store:    store,
		uploader: uploader,
		capacity: capacity,
		logger:   logger,
		bounded:  newBounded(timeout),
	}
}

// SubmitRegistration admits a new, unverified registration. The capacity
// check and the write are not atomic: two submissions racing for the last
// slot can both succeed, and the admin decides at verification time.
func (rs *RegistrationService) SubmitRegistration(ctx context.Context, eventID string, req *RegistrationRequest) (*models.Registration, error) {
	if req == nil {
		return nil, invalidInput(errors.New("empty registration"))
	}

	event, err := rs.capacity.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := rs.now()
	if event.IsClosed(now) {
		return nil, ErrRegistrationClosed
	}

	if event.HasCapacityLimit() {
		verified, err := rs.capacity.VerifiedCount(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event.IsFull(verified) {
			return nil, ErrCapacityExceeded
		}
	}

	if err := validateRegistration(event, req); err != nil {
		return nil, err
	}

	txnID := strings.TrimSpace(req.TransactionID)
	if event.IsPaid() && (txnID == "" || req.ProofImage == nil || req.ProofImage.Content == nil) {
		return nil, ErrPaymentProofRequired
	}

	reg := &models.Registration{
		EventID:       eventID,
		EventName:     event.Title,
		Lead:          req.Lead,
		TeamMembers:   req.TeamMembers,
		TransactionID: txnID,
		RegisteredAt:  now,
		Verified:      false,
	}
	if reg.TeamMembers == nil {
		reg.TeamMembers = []models.Member{}
	}

	if req.ProofImage != nil && req.ProofImage.Content != nil {
		url, err := rs.upload(ctx, rs.uploader, req.ProofImage, helpers.TransactionFolder(eventID))
		if err != nil {
			return nil, err
		}
		reg.TransactionImageURL = url
	}

	cctx, cancel := rs.call(ctx)
	defer cancel()
	id, err := rs.store.Create(cctx, models.RegistrationsCol, reg)
	if err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "create registration", err)
	}
	reg.ID = id

	rs.logger.Info("registration submitted",
		"registration_id", id,
		"event_id", eventID,
		"team_size", len(reg.TeamMembers)+1,
		"paid", event.IsPaid(),
	)
	return reg, nil
}

func validateRegistration(event *models.Event, req *RegistrationRequest) error {
	if err := models.Validate.Struct(req); err != nil {
		return invalidInput(err)
	}
	if want := event.TeamSize - 1; want >= 0 && len(req.TeamMembers) != want {
		return invalidInput(fmt.Errorf("expected %d team members, got %d", want, len(req.TeamMembers)))
	}
	return nil
}

// ListRegistrations returns every registration of an event, newest first.
func (rs *RegistrationService) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	cctx, cancel := rs.call(ctx)
	defer cancel()

	regs := []models.Registration{}
	q := models.Where(models.FieldEventID, models.OpEq, eventID).Order(models.FieldRegisteredAt, true)
	if err := rs.store.Query(cctx, models.RegistrationsCol, q, &regs); err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "list registrations", err)
	}
	return regs, nil
}

// WatchRegistrations delivers the full registration list of an event on
// every change until the returned Unsubscribe is called or ctx ends.
func (rs *RegistrationService) WatchRegistrations(ctx context.Context, eventID string, listener func([]models.Registration, error)) (models.Unsubscribe, error) {
	q := models.Where(models.FieldEventID, models.OpEq, eventID).Order(models.FieldRegisteredAt, true)
	unsubscribe, err := rs.store.Subscribe(ctx, models.RegistrationsCol, q, func(s models.Snapshot) {
		listener(models.DecodeAll[models.Registration](s))
	})
	if err != nil {
		return nil, gatewayError(ctx, ErrPersistence, "subscribe to registrations", err)
	}
	return unsubscribe, nil
}
