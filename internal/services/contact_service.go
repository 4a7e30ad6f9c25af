package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

type ContactService struct {
	store  models.DocumentStore
	logger *slog.Logger
	bounded
}

func NewContactService(store models.DocumentStore, logger *slog.Logger, timeout time.Duration) *ContactService {
	return &ContactService{
		store:   store,
		logger:  logger,
		bounded: newBounded(timeout),
	}
}

func (cs *ContactService) Submit(ctx context.Context, c *models.ContactSubmission) (*models.ContactSubmission, error) {
	c.ID = ""
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)
	if err := models.Validate.Struct(c); err != nil {
		return nil, invalidInput(err)
	}
	c.SubmittedAt = cs.now()

	cctx, cancel := cs.call(ctx)
	defer cancel()
	id, err := cs.store.Create(cctx, models.ContactSubmissionsCol, c)
	if err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "save contact submission", err)
	}
	c.ID = id
	cs.logger.Info("contact submission received", "id", id)
	return c, nil
}
