package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

func UpcomingEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.UpcomingEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, len(events)))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		status, err := es.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status, ""))
	}
}

// bindEventForm reads an event and its optional poster and QR code images.
func bindEventForm(c *gin.Context) (*models.Event, services.EventAssets, func(), error) {
	var assets services.EventAssets
	closers := []func(){}
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	var event models.Event
	if err := bindPayload(c, &event); err != nil {
		return nil, assets, closeAll, err
	}

	poster, closePoster, err := formFile(c, "poster")
	closers = append(closers, closePoster)
	if err != nil {
		return nil, assets, closeAll, err
	}
	qr, closeQR, err := formFile(c, "qr_code")
	closers = append(closers, closeQR)
	if err != nil {
		return nil, assets, closeAll, err
	}

	assets.Poster = poster
	assets.QRCode = qr
	return &event, assets, closeAll, nil
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, assets, done, err := bindEventForm(c)
		defer done()
		if err != nil {
			respondError(c, err)
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), event, assets)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		event, assets, done, err := bindEventForm(c)
		defer done()
		if err != nil {
			respondError(c, err)
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), id, event, assets)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := es.DeleteEvent(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

func EventsSummary(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := es.Summary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(summary, len(summary)))
	}
}

// CapacityStream pushes the verified count of an event to the registration
// page whenever it changes.
func CapacityStream(cs *services.CapacityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		updates := make(chan services.CapacitySnapshot, 1)
		unsubscribe, err := cs.WatchVerified(ctx, id, func(s services.CapacitySnapshot) {
			offerLatest(updates, s)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		defer unsubscribe()

		streamEvents(ctx, c, updates, func(s services.CapacitySnapshot) bool {
			if s.Err != nil {
				c.SSEvent("error", gin.H{"error": s.Err.Error()})
				return false
			}
			c.SSEvent("capacity", s)
			return true
		})
	}
}
