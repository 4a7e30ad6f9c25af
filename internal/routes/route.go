package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/container"
	"github.com/scorecraft/scorecraft-api/internal/handlers"
	"github.com/scorecraft/scorecraft-api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", handlers.RelayTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	// Mail relay keeps the path the front-end already posts to.
	r.Any("/api/send-email", handlers.SendEmail(container.Notifier, cfg.MailRelayToken))

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", handlers.Health("scorecraft-api"))

		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/upcoming", handlers.UpcomingEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/events/:id/capacity/stream", handlers.CapacityStream(container.CapacityService))
		v1.POST("/events/:id/registrations", handlers.SubmitRegistration(container.RegistrationService))

		v1.GET("/core-team", handlers.ListPeople(container.CoreTeamService))
		v1.GET("/mentors", handlers.ListPeople(container.MentorService))
		v1.POST("/contact", handlers.SubmitContact(container.ContactService))

		v1.POST("/admin/login", handlers.AdminLogin(container.AdminService, secure))
		v1.POST("/admin/logout", handlers.Logout(secure))
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(container.TokenValidator, container.AdminService, secure, container.Logger))
	{
		admin.GET("/me", handlers.CurrentAdmin())

		eventRoutes := admin.Group("/events")
		{
			eventRoutes.POST("", handlers.CreateEvent(container.EventService))
			eventRoutes.GET("/summary", handlers.EventsSummary(container.EventService))
			eventRoutes.PUT("/:id", handlers.UpdateEvent(container.EventService))
			eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))
			eventRoutes.GET("/:id/registrations", handlers.ListRegistrations(container.RegistrationService))
			eventRoutes.GET("/:id/registrations/stream", handlers.RegistrationsStream(container.RegistrationService))
			eventRoutes.GET("/:id/registrations/export", handlers.ExportRegistrations(container.RegistrationService))
		}

		admin.POST("/registrations/:id/verify", handlers.VerifyRegistration(container.VerificationService))

		coreTeam := admin.Group("/core-team")
		{
			coreTeam.POST("", handlers.CreatePerson(container.CoreTeamService))
			coreTeam.PUT("/:id", handlers.UpdatePerson(container.CoreTeamService))
			coreTeam.DELETE("/:id", handlers.DeletePerson(container.CoreTeamService))
		}

		mentors := admin.Group("/mentors")
		{
			mentors.POST("", handlers.CreatePerson(container.MentorService))
			mentors.PUT("/:id", handlers.UpdatePerson(container.MentorService))
			mentors.DELETE("/:id", handlers.DeletePerson(container.MentorService))
		}

		admin.GET("/sections/:section", handlers.Sections(handlers.SectionRegistry{
			handlers.SectionEvents:   handlers.EventsSummary(container.EventService),
			handlers.SectionMentors:  handlers.ListPeople(container.MentorService),
			handlers.SectionCoreTeam: handlers.ListPeople(container.CoreTeamService),
		}))
	}

	return r
}
