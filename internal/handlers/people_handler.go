package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/scorecraft/scorecraft-api/internal/services"
)

func ListPeople(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		people, err := ps.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(people, len(people)))
	}
}

func bindPersonForm(c *gin.Context) (*models.Person, *services.Upload, func(), error) {
	var p models.Person
	if err := bindPayload(c, &p); err != nil {
		return nil, nil, func() {}, err
	}
	photo, done, err := formFile(c, "image")
	if err != nil {
		return nil, nil, done, err
	}
	return &p, photo, done, nil
}

func CreatePerson(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, photo, done, err := bindPersonForm(c)
		defer done()
		if err != nil {
			respondError(c, err)
			return
		}
		created, err := ps.Create(c.Request.Context(), p, photo)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Created successfully"))
	}
}

func UpdatePerson(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		p, photo, done, err := bindPersonForm(c)
		defer done()
		if err != nil {
			respondError(c, err)
			return
		}
		updated, err := ps.Update(c.Request.Context(), id, p, photo)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Updated successfully"))
	}
}

func DeletePerson(ps *services.PeopleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := ps.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Deleted successfully"))
	}
}

func SubmitContact(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sub models.ContactSubmission
		if err := c.ShouldBindJSON(&sub); err != nil {
			respondError(c, badBody(err))
			return
		}
		saved, err := cs.Submit(c.Request.Context(), &sub)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(saved, "Thanks for reaching out!"))
	}
}
