package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

var (
	ErrRegistrationClosed      = errors.New("registration is closed")
	ErrCapacityExceeded        = errors.New("event is full")
	ErrPaymentProofRequired    = errors.New("transaction id and payment screenshot are required for paid events")
	ErrUploadFailed            = errors.New("upload failed")
	ErrPersistence             = errors.New("could not save to the database")
	ErrVerificationWriteFailed = errors.New("could not mark registration as verified")
	ErrNotificationFailed      = errors.New("notification failed")
	ErrAuth                    = errors.New("authentication failed")
	ErrForbidden               = fmt.Errorf("%w: not an admin account", ErrAuth)
	ErrTimeout                 = errors.New("operation timed out")
	ErrInvalidInput            = errors.New("invalid input")
	ErrEventNotFound           = errors.New("event not found")
	ErrRegistrationNotFound    = errors.New("registration not found")
	ErrAlreadyVerified         = errors.New("registration is already verified")
	ErrNotFound                = models.ErrNotFound
)

// gatewayError tags a failed gateway call with kind, and additionally with
// ErrTimeout when the call ran out of time. ctx is the context the call ran under.
func gatewayError(ctx context.Context, kind error, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w: %s: %v", ErrTimeout, kind, op, err)
	}
	return fmt.Errorf("%w: %s: %v", kind, op, err)
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
