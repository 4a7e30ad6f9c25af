package container

import (
	"log/slog"

	"github.com/scorecraft/scorecraft-api/internal/config"
	"github.com/scorecraft/scorecraft-api/internal/helpers"
	"github.com/scorecraft/scorecraft-api/internal/middleware"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Store          models.DocumentStore
	TokenValidator middleware.TokenValidator
	Notifier       services.Notifier

	CapacityService     *services.CapacityService
	RegistrationService *services.RegistrationService
	VerificationService *services.VerificationService
	EventService        *services.EventService
	CoreTeamService     *services.PeopleService
	MentorService       *services.PeopleService
	ContactService      *services.ContactService
	AdminService        *services.AdminService
}

// Gateways are the external services the application talks to.
type Gateways struct {
	Store          models.DocumentStore
	Uploader       services.Uploader
	Notifier       services.Notifier
	Auth           models.AuthRepo
	TokenValidator middleware.TokenValidator
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger, gw Gateways) *Container {
	timeout := cfg.GatewayTimeout
	capacity := services.NewCapacityService(gw.Store, timeout)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Store:          gw.Store,
		TokenValidator: gw.TokenValidator,
		Notifier:       gw.Notifier,

		CapacityService:     capacity,
		RegistrationService: services.NewRegistrationService(gw.Store, gw.Uploader, capacity, logger, timeout),
		VerificationService: services.NewVerificationService(gw.Store, gw.Notifier, capacity, logger, timeout),
		EventService:        services.NewEventService(gw.Store, gw.Uploader, capacity, logger, timeout),
		CoreTeamService:     services.NewPeopleService(gw.Store, gw.Uploader, models.CoreTeamCol, helpers.CoreTeamFolder, logger, timeout),
		MentorService:       services.NewPeopleService(gw.Store, gw.Uploader, models.MentorsCol, helpers.MentorsFolder, logger, timeout),
		ContactService:      services.NewContactService(gw.Store, logger, timeout),
		AdminService:        services.NewAdminService(gw.Auth, cfg.AdminEmails),
	}
}
