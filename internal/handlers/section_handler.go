package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/models"
)

// AdminSection names one management screen of the admin dashboard.
type AdminSection string

const (
	SectionEvents   AdminSection = "events"
	SectionMentors  AdminSection = "mentors"
	SectionCoreTeam AdminSection = "core_team"
)

// SectionRegistry maps each admin section to the handler that lists its records.
type SectionRegistry map[AdminSection]gin.HandlerFunc

// Sections dispatches GET /sections/:section to the registered handler.
func Sections(registry SectionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		section := AdminSection(c.Param("section"))
		h, ok := registry[section]
		if !ok {
			c.JSON(http.StatusNotFound, models.CodedErrorResponse("UNKNOWN_SECTION", "unknown admin section "+string(section)))
			return
		}
		h(c)
	}
}

func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": service,
		})
	}
}
