package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MealController handles HTTP requests related to the meal catalog
type MealController interface {
	// GetAllMeals retrieves all meals
	GetAllMeals(ctx *gin.Context)
	// GetMealByID retrieves a meal by its ID
	GetMealByID(ctx *gin.Context)
	// CreateMeal creates a new meal
	CreateMeal(ctx *gin.Context)
	// UpdateMeal replaces an existing meal
	UpdateMeal(ctx *gin.Context)
	// PatchMeal updates some fields of an existing meal
	PatchMeal(ctx *gin.Context)
}

// MealRequest is the body of meal create and full update requests
type MealRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Price    float64 `json:"price" binding:"gte=0"`
	Capacity int     `json:"capacity" binding:"gte=0"`
	Sales    int     `json:"sales" binding:"gte=0"`
}

// MealPatchRequest is the body of a partial meal update
type MealPatchRequest struct {
	Name     *string  `json:"name" binding:"omitempty,max=100"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	Capacity *int     `json:"capacity" binding:"omitempty,gte=0"`
	Sales    *int     `json:"sales" binding:"omitempty,gte=0"`
}

type mealController struct {
	service services.MealService
}

// NewMealController creates a new instance of MealController
func NewMealController(service services.MealService) MealController {
	return &mealController{service: service}
}

// GetAllMeals godoc
// @Summary Get all meals
// @Description Get the meal catalog ordered by ID
// @Tags meals
// @Produce json
// @Success 200 {array} models.Meal
// @Failure 401 {object} models.OAuth2Error
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/meals [get]
func (c *mealController) GetAllMeals(ctx *gin.Context) {
	meals, err := c.service.ListMeals(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, meals)
}

// GetMealByID godoc
// @Summary Get meal by ID
// @Description Get a single meal by its ID
// @Tags meals
// @Produce json
// @Param id path int true "Meal ID"
// @Success 200 {object} models.Meal
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/meals/{id} [get]
func (c *mealController) GetMealByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	meal, err := c.service.GetMeal(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, meal)
}

// CreateMeal godoc
// @Summary Create a new meal
// @Description Add a meal to the catalog
// @Tags meals
// @Accept json
// @Produce json
// @Param meal body MealRequest true "Meal"
// @Success 201 {object} models.Meal
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/meals [post]
func (c *mealController) CreateMeal(ctx *gin.Context) {
	var req MealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	meal, err := c.service.CreateMeal(ctx.Request.Context(), req.toMeal(0))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, meal)
}

// UpdateMeal godoc
// @Summary Update a meal
// @Description Replace every field of a meal
// @Tags meals
// @Accept json
// @Produce json
// @Param id path int true "Meal ID"
// @Param meal body MealRequest true "Meal"
// @Success 200 {object} models.Meal
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/meals/{id} [put]
func (c *mealController) UpdateMeal(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req MealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	meal, err := c.service.UpdateMeal(ctx.Request.Context(), req.toMeal(id))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, meal)
}

// PatchMeal godoc
// @Summary Partially update a meal
// @Tags meals
// @Accept json
// @Produce json
// @Param id path int true "Meal ID"
// @Param meal body MealPatchRequest true "Fields to change"
// @Success 200 {object} models.Meal
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/meals/{id} [patch]
func (c *mealController) PatchMeal(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req MealPatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	meal, err := c.service.PatchMeal(ctx.Request.Context(), id, services.MealPatch{
		Name:     req.Name,
		Price:    req.Price,
		Capacity: req.Capacity,
		Sales:    req.Sales,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, meal)
}

func (r MealRequest) toMeal(id uint) models.Meal {
	return models.Meal{
		ID:       id,
		Name:     r.Name,
		Price:    r.Price,
		Capacity: r.Capacity,
		Sales:    r.Sales,
	}
}
