package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

type VerificationResult struct {
	Registration      *models.Registration `json:"registration"`
	EmailStatus       models.EmailStatus   `json:"email_status"`
	VerifiedCount     int                  `json:"verified_count"`
	NotificationError error                `json:"-"`
}

type VerificationService struct {
	store    models.DocumentStore
	notifier Notifier
	capacity *CapacityService
	logger   *slog.Logger
	bounded
}

func NewVerificationService(store models.DocumentStore, notifier Notifier, capacity *CapacityService, logger *slog.Logger, timeout time.Duration) *VerificationService {
	return &VerificationService{
		store:    store,
		notifier: notifier,
		capacity: capacity,
		logger:   logger,
		bounded:  newBounded(timeout),
	}
}

// ConfirmationEmail is the message a lead receives once payment is approved.
func ConfirmationEmail(to, eventName string) models.Email {
	return models.Email{
		To:      to,
		Subject: fmt.Sprintf("✅ Registration Confirmed for %s!", eventName),
		HTML:    fmt.Sprintf("<p>Your registration for <strong>%s</strong> has been confirmed.</p>", html.EscapeString(eventName)),
	}
}

// VerifyRegistration marks a registration verified, then notifies the lead
// and records how that went. Only a failure of the verified write fails the
// call; notification and bookkeeping failures are logged and reported in
// the result.
func (vs *VerificationService) VerifyRegistration(ctx context.Context, registrationID string) (*VerificationResult, error) {
	reg, err := vs.load(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Verified {
		return nil, ErrAlreadyVerified
	}

	verifiedAt := vs.now()
	if err := vs.update(ctx, registrationID, map[string]any{
		models.FieldVerified:   true,
		models.FieldVerifiedAt: verifiedAt,
	}); err != nil {
		return nil, gatewayError(ctx, ErrVerificationWriteFailed, "mark verified", err)
	}
	reg.Verified = true
	reg.VerifiedAt = &verifiedAt

	log := vs.logger.With("registration_id", registrationID, "event_id", reg.EventID)
	result := &VerificationResult{Registration: reg}

	count, err := vs.capacity.VerifiedCount(ctx, reg.EventID)
	if err != nil {
		log.Warn("could not refresh verified count", "error", err)
	}
	result.VerifiedCount = count

	result.EmailStatus = models.EmailStatusVerifiedSent
	if err := vs.notify(ctx, reg); err != nil {
		result.EmailStatus = models.EmailStatusVerifiedFail
		result.NotificationError = err
		log.Warn("confirmation email failed", "to", reg.Email, "error", err)
	}

	if err := vs.update(ctx, registrationID, map[string]any{
		models.FieldEmailStatus: result.EmailStatus,
	}); err != nil {
		log.Error("could not record email status", "email_status", result.EmailStatus, "error", err)
	} else {
		reg.EmailStatus = result.EmailStatus
	}

	log.Info("registration verified", "email_status", result.EmailStatus, "verified_count", count)
	return result, nil
}

func (vs *VerificationService) load(ctx context.Context, id string) (*models.Registration, error) {
	cctx, cancel := vs.call(ctx)
	defer cancel()

	var reg models.Registration
	if err := vs.store.Get(cctx, models.RegistrationsCol, id, &reg); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, gatewayError(cctx, ErrPersistence, "load registration", err)
	}
	return &reg, nil
}

func (vs *VerificationService) update(ctx context.Context, id string, fields map[string]any) error {
	cctx, cancel := vs.call(ctx)
	defer cancel()

	if err := vs.store.Update(cctx, models.RegistrationsCol, id, fields); err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return err
	}
	return nil
}

func (vs *VerificationService) notify(ctx context.Context, reg *models.Registration) error {
	cctx, cancel := vs.call(ctx)
	defer cancel()

	if err := vs.notifier.Send(cctx, ConfirmationEmail(reg.Email, reg.EventName)); err != nil {
		return gatewayError(cctx, ErrNotificationFailed, "send confirmation", err)
	}
	return nil
}
