package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
)

type DeliveryRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address"`
	OrderID uint   `json:"order_id" binding:"required"`
}

// DeliveryUpdateRequest changes a delivery. The order it belongs to is fixed.
type DeliveryUpdateRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Address *string `json:"address"`
}

type DeliveryController struct {
	service services.DeliveryService
}

func NewDeliveryController(service services.DeliveryService) *DeliveryController {
	return &DeliveryController{service: service}
}

// ListDeliveries godoc
// @Summary List deliveries
// @Tags deliveries
// @Produce json
// @Success 200 {array} models.Delivery
// @Security BearerAuth
// @Router /api/v1/deliveries [get]
func (dc *DeliveryController) ListDeliveries(c *gin.Context) {
	deliveries, err := dc.service.ListDeliveries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

// CreateDelivery godoc
// @Summary Request a delivery for an order
// @Description The order must have del_flag set and must not be completed
// @Tags deliveries
// @Accept json
// @Produce json
// @Param delivery body DeliveryRequest true "Delivery"
// @Success 201 {object} models.Delivery
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 422 {object} models.APIError "Delivery rejected"
// @Security BearerAuth
// @Router /api/v1/deliveries [post]
func (dc *DeliveryController) CreateDelivery(c *gin.Context) {
	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	delivery, err := dc.service.CreateDelivery(c.Request.Context(), models.Delivery{
		Name:    req.Name,
		Address: req.Address,
		OrderID: req.OrderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, delivery)
}

// GetDelivery godoc
// @Summary Get a delivery
// @Tags deliveries
// @Produce json
// @Param id path int true "Delivery ID"
// @Success 200 {object} models.Delivery
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/deliveries/{id} [get]
func (dc *DeliveryController) GetDelivery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	delivery, err := dc.service.GetDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// UpdateDelivery godoc
// @Summary Update a delivery's name or address
// @Tags deliveries
// @Accept json
// @Produce json
// @Param id path int true "Delivery ID"
// @Param delivery body DeliveryUpdateRequest true "Fields to change"
// @Success 200 {object} models.Delivery
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/deliveries/{id} [put]
// @Router /api/v1/deliveries/{id} [patch]
func (dc *DeliveryController) UpdateDelivery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req DeliveryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	delivery, err := dc.service.UpdateDelivery(c.Request.Context(), id, services.DeliveryPatch{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// DeleteDelivery godoc
// @Summary Delete a delivery
// @Tags deliveries
// @Param id path int true "Delivery ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/deliveries/{id} [delete]
func (dc *DeliveryController) DeleteDelivery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := dc.service.DeleteDelivery(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
