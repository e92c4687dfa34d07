package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PhoneNumberRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Number     string `json:"number" binding:"required,max=32"`
}

type PhoneNumberPatchRequest struct {
	EmployeeID *uint   `json:"employee_id" binding:"omitempty,gt=0"`
	Number     *string `json:"number" binding:"omitempty,min=1,max=32"`
}

type PhoneNumberController struct {
	service services.PhoneNumberService
}

func NewPhoneNumberController(service services.PhoneNumberService) *PhoneNumberController {
	return &PhoneNumberController{service: service}
}

// ListPhoneNumbers godoc
// @Summary List phone numbers
// @Tags phones
// @Produce json
// @Success 200 {array} models.PhoneNumber
// @Security BearerAuth
// @Router /api/v1/phones [get]
func (pc *PhoneNumberController) ListPhoneNumbers(c *gin.Context) {
	phones, err := pc.service.ListPhoneNumbers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, phones)
}

// CreatePhoneNumber godoc
// @Summary Add a phone number to an employee
// @Tags phones
// @Accept json
// @Produce json
// @Param phone body PhoneNumberRequest true "Phone number"
// @Success 201 {object} models.PhoneNumber
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/phones [post]
func (pc *PhoneNumberController) CreatePhoneNumber(c *gin.Context) {
	var req PhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	phone, err := pc.service.CreatePhoneNumber(c.Request.Context(), models.PhoneNumber{EmployeeID: req.EmployeeID, Number: req.Number})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, phone)
}

// GetPhoneNumber godoc
// @Summary Get a phone number
// @Tags phones
// @Produce json
// @Param id path int true "Phone number ID"
// @Success 200 {object} models.PhoneNumber
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/phones/{id} [get]
func (pc *PhoneNumberController) GetPhoneNumber(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	phone, err := pc.service.GetPhoneNumber(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, phone)
}

// UpdatePhoneNumber godoc
// @Summary Replace a phone number
// @Tags phones
// @Accept json
// @Produce json
// @Param id path int true "Phone number ID"
// @Param phone body PhoneNumberRequest true "Phone number"
// @Success 200 {object} models.PhoneNumber
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/phones/{id} [put]
func (pc *PhoneNumberController) UpdatePhoneNumber(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	phone, err := pc.service.UpdatePhoneNumber(c.Request.Context(), models.PhoneNumber{ID: id, EmployeeID: req.EmployeeID, Number: req.Number})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, phone)
}

// PatchPhoneNumber godoc
// @Summary Partially update a phone number
// @Tags phones
// @Accept json
// @Produce json
// @Param id path int true "Phone number ID"
// @Param phone body PhoneNumberPatchRequest true "Fields to change"
// @Success 200 {object} models.PhoneNumber
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/phones/{id} [patch]
func (pc *PhoneNumberController) PatchPhoneNumber(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PhoneNumberPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	phone, err := pc.service.GetPhoneNumber(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.EmployeeID != nil {
		phone.EmployeeID = *req.EmployeeID
	}
	if req.Number != nil {
		phone.Number = *req.Number
	}

	phone, err = pc.service.UpdatePhoneNumber(c.Request.Context(), phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, phone)
}

// DeletePhoneNumber godoc
// @Summary Delete a phone number
// @Tags phones
// @Param id path int true "Phone number ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/phones/{id} [delete]
func (pc *PhoneNumberController) DeletePhoneNumber(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := pc.service.DeletePhoneNumber(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
