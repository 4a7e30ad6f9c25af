package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scorecraft/scorecraft-api/internal/models"
)

// PeopleService manages one roster collection (core team or mentors).
type PeopleService struct {
	store      models.DocumentStore
	uploader   Uploader
	collection string
	folder     string
	logger     *slog.Logger
	bounded
}

func NewPeopleService(store models.DocumentStore, uploader Uploader, collection, folder string, logger *slog.Logger, timeout time.Duration) *PeopleService {
	return &PeopleService{
		store:      store,
		uploader:   uploader,
		collection: collection,
		folder:     folder,
		logger:     logger.With("collection", collection),
		bounded:    newBounded(timeout),
	}
}

func (ps *PeopleService) List(ctx context.Context) ([]models.Person, error) {
	cctx, cancel := ps.call(ctx)
	defer cancel()

	people := []models.Person{}
	if err := ps.store.Query(cctx, ps.collection, models.Query{}.Order(models.FieldName, false), &people); err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "list "+ps.collection, err)
	}
	return people, nil
}

func (ps *PeopleService) Create(ctx context.Context, p *models.Person, photo *Upload) (*models.Person, error) {
	p.ID = ""
	if err := models.Validate.Struct(p); err != nil {
		return nil, invalidInput(err)
	}
	if photo != nil && photo.Content != nil {
		url, err := ps.upload(ctx, ps.uploader, photo, ps.folder)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	cctx, cancel := ps.call(ctx)
	defer cancel()
	id, err := ps.store.Create(cctx, ps.collection, p)
	if err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "create person", err)
	}
	p.ID = id
	ps.logger.Info("person added", "id", id, "name", p.Name)
	return p, nil
}

func (ps *PeopleService) Update(ctx context.Context, id string, p *models.Person, photo *Upload) (*models.Person, error) {
	if err := models.Validate.Struct(p); err != nil {
		return nil, invalidInput(err)
	}
	if photo != nil && photo.Content != nil {
		url, err := ps.upload(ctx, ps.uploader, photo, ps.folder)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	fields := map[string]any{
		"name":     p.Name,
		"role":     p.Role,
		"linkedin": p.LinkedIn,
	}
	if p.ImageURL != "" {
		fields["image_url"] = p.ImageURL
	}

	cctx, cancel := ps.call(ctx)
	defer cancel()
	if err := ps.store.Update(cctx, ps.collection, id, fields); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, gatewayError(cctx, ErrPersistence, "update person", err)
	}

	var updated models.Person
	if err := ps.store.Get(cctx, ps.collection, id, &updated); err != nil {
		return nil, gatewayError(cctx, ErrPersistence, "reload person", err)
	}
	return &updated, nil
}

func (ps *PeopleService) Delete(ctx context.Context, id string) error {
	cctx, cancel := ps.call(ctx)
	defer cancel()

	if err := ps.store.Delete(cctx, ps.collection, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrNotFound
		}
		return gatewayError(cctx, ErrPersistence, "delete person", err)
	}
	ps.logger.Info("person removed", "id", id)
	return nil
}
