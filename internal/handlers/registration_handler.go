package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/export"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

// SubmitRegistration accepts either a JSON body (free events) or a multipart
// form with a JSON "payload" field and a "transaction_image" file.
func SubmitRegistration(rs *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var req services.RegistrationRequest
		if err := bindPayload(c, &req); err != nil {
			respondError(c, err)
			return
		}
		proof, closeProof, err := formFile(c, "transaction_image")
		defer closeProof()
		if err != nil {
			respondError(c, err)
			return
		}
		req.ProofImage = proof

		reg, err := rs.SubmitRegistration(c.Request.Context(), eventID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(reg, "Registration submitted successfully"))
	}
}

func ListRegistrations(rs *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathID(c, "id")
		if !ok {
			return
		}
		regs, err := rs.ListRegistrations(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(regs, len(regs)))
	}
}

type registrationsUpdate struct {
	regs []models.Registration
	err  error
}

// RegistrationsStream keeps the admin's registration table live.
func RegistrationsStream(rs *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		updates := make(chan registrationsUpdate, 1)
		unsubscribe, err := rs.WatchRegistrations(ctx, eventID, func(regs []models.Registration, err error) {
			offerLatest(updates, registrationsUpdate{regs: regs, err: err})
		})
		if err != nil {
			respondError(c, err)
			return
		}
		defer unsubscribe()

		streamEvents(ctx, c, updates, func(u registrationsUpdate) bool {
			if u.err != nil {
				c.SSEvent("error", gin.H{"error": u.err.Error()})
				return false
			}
			c.SSEvent("registrations", models.ListResponse(u.regs, len(u.regs)))
			return true
		})
	}
}

func ExportRegistrations(rs *services.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := pathID(c, "id")
		if !ok {
			return
		}
		regs, err := rs.ListRegistrations(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, export.FlattenRegistrations(regs)); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.Filename)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}

func VerifyRegistration(vs *services.VerificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}

		result, err := vs.VerifyRegistration(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		data := gin.H{
			"registration":   result.Registration,
			"email_status":   result.EmailStatus,
			"verified_count": result.VerifiedCount,
		}
		msg := "Registration verified and confirmation email sent"
		if result.NotificationError != nil {
			data["notification_error"] = result.NotificationError.Error()
			msg = "Registration verified, but the confirmation email could not be sent"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(data, msg))
	}
}
