package services

import (
	"context"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"gorm.io/gorm"
)

// MealPatch carries the fields of a partial meal update. Nil fields are left unchanged.
type MealPatch struct {
	Name     *string
	Price    *float64
	Capacity *int
	Sales    *int
}

// MealService provides access to the meal catalog
type MealService interface {
	// ListMeals retrieves all meals ordered by ID
	ListMeals(ctx context.Context) ([]models.Meal, error)
	// GetMeal retrieves a meal by its ID
	GetMeal(ctx context.Context, id uint) (models.Meal, error)
	// CreateMeal adds a meal to the catalog
	CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error)
	// UpdateMeal replaces every field of an existing meal
	UpdateMeal(ctx context.Context, meal models.Meal) (models.Meal, error)
	// PatchMeal updates the supplied fields of an existing meal
	PatchMeal(ctx context.Context, id uint, patch MealPatch) (models.Meal, error)
}

type mealService struct {
	db *gorm.DB
}

// NewMealService creates a new instance of MealService
func NewMealService(db *gorm.DB) MealService {
	return &mealService{db: db}
}

func (s *mealService) ListMeals(ctx context.Context) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := s.db.WithContext(ctx).Order("id").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (s *mealService) GetMeal(ctx context.Context, id uint) (models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).First(&meal, id).Error; err != nil {
		return models.Meal{}, notFound(err, "meal", id)
	}
	return meal, nil
}

func (s *mealService) CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error) {
	meal.ID = 0
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

func (s *mealService) UpdateMeal(ctx context.Context, meal models.Meal) (models.Meal, error) {
	existing, err := s.GetMeal(ctx, meal.ID)
	if err != nil {
		return models.Meal{}, err
	}
	meal.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(&meal).Error; err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

func (s *mealService) PatchMeal(ctx context.Context, id uint, patch MealPatch) (models.Meal, error) {
	meal, err := s.GetMeal(ctx, id)
	if err != nil {
		return models.Meal{}, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Capacity != nil {
		updates["capacity"] = *patch.Capacity
	}
	if patch.Sales != nil {
		updates["sales"] = *patch.Sales
	}
	if len(updates) == 0 {
		return meal, nil
	}

	if err := s.db.WithContext(ctx).Model(&meal).Updates(updates).Error; err != nil {
		return models.Meal{}, err
	}
	return s.GetMeal(ctx, id)
}
