package controllers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/middleware"
	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
)

const orderUpdateMessage = "only completed and del_flag can be updated"

// OrderRequest places an order. A meal ID repeated n times orders n units.
// EmployeeID defaults to the caller.
type OrderRequest struct {
	EmployeeID uint   `json:"employee_id"`
	MealIDs    []uint `json:"meal_ids" binding:"required,min=1"`
	DelFlag    *Flag  `json:"del_flag" swaggertype:"boolean"`
	Completed  *Flag  `json:"completed" swaggertype:"boolean"`
}

// OrderResponse echoes the placement request with the stored order's ID,
// price and lines.
type OrderResponse struct {
	ID         uint               `json:"id"`
	EmployeeID uint               `json:"employee_id"`
	MealIDs    []uint             `json:"meal_ids"`
	DelFlag    bool               `json:"del_flag"`
	Completed  bool               `json:"completed"`
	Price      float64            `json:"price"`
	Lines      []models.OrderLine `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
}

type OrderController struct {
	service services.OrderService
}

func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} models.Order
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.service.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get an order with its lines
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := oc.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Reserves one unit of inventory per listed meal ID and stores the order. Fails as a whole when any meal is missing or sold out.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body OrderRequest true "Order"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError "Meal unavailable"
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if req.EmployeeID == 0 {
		req.EmployeeID = c.GetUint(middleware.ContextUserID)
	}

	in := services.PlaceOrderInput{EmployeeID: req.EmployeeID, MealIDs: req.MealIDs}
	if flag := req.DelFlag.ptr(); flag != nil {
		in.DelFlag = *flag
	}
	if flag := req.Completed.ptr(); flag != nil {
		in.Completed = *flag
	}

	order, err := oc.service.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OrderResponse{
		ID:         order.ID,
		EmployeeID: order.EmployeeID,
		MealIDs:    req.MealIDs,
		DelFlag:    order.DelFlag,
		Completed:  order.Completed,
		Price:      order.Price,
		Lines:      order.Lines,
		CreatedAt:  order.CreatedAt,
	})
}

// UpdateOrder godoc
// @Summary Set order flags
// @Description Only completed and del_flag can change. Each accepts a boolean or a boolean string.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param flags body object{completed=boolean,del_flag=boolean} true "Flags"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [patch]
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	var completed, delFlag *Flag
	var unknown []string
	for key, raw := range body {
		var target **Flag
		switch key {
		case "completed":
			target = &completed
		case "del_flag":
			target = &delFlag
		default:
			unknown = append(unknown, key)
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			badRequest(c, "Invalid "+key, err)
			return
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrOrderUpdateInvalid, orderUpdateMessage, map[string]interface{}{"fields": unknown}))
		return
	}

	order, err := oc.service.UpdateOrderFlags(c.Request.Context(), id, services.OrderFlagsUpdate{
		Completed: completed.ptr(),
		DelFlag:   delFlag.ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ReplaceOrder godoc
// @Summary Full order updates are not supported
// @Tags orders
// @Param id path int true "Order ID"
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [put]
func (oc *OrderController) ReplaceOrder(c *gin.Context) {
	c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrOrderUpdateInvalid, orderUpdateMessage))
}

// DeleteOrder godoc
// @Summary Cancel an order
// @Description Deletes the order with its lines and deliveries. Meals return to inventory unless the order was completed.
// @Tags orders
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [delete]
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := oc.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
