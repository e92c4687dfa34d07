package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealService(t *testing.T) {
	db := setupTestDB(t)
	service := NewMealService(db)
	ctx := context.Background()

	created, err := service.CreateMeal(ctx, models.Meal{Name: "Burger", Price: 10.99, Capacity: 50})
	require.NoError(t, err)
	_, err = service.CreateMeal(ctx, models.Meal{Name: "Pizza", Price: 15.99, Capacity: 40})
	require.NoError(t, err)

	meals, err := service.ListMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Burger", meals[0].Name)

	name, capacity, sales := "pizza", 20, 12
	price := 12.0
	patched, err := service.PatchMeal(ctx, created.ID, MealPatch{Name: &name, Price: &price, Capacity: &capacity, Sales: &sales})
	require.NoError(t, err)
	assert.Equal(t, models.Meal{ID: created.ID, Name: "pizza", Price: 12.0, Capacity: 20, Sales: 12}, stripTimes(patched))

	updated, err := service.UpdateMeal(ctx, models.Meal{ID: created.ID, Name: "Wrap", Price: 5, Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Sales)

	_, err = service.GetMeal(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = service.UpdateMeal(ctx, models.Meal{ID: 999, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func stripTimes(meal models.Meal) models.Meal {
	meal.CreatedAt = time.Time{}
	meal.UpdatedAt = time.Time{}
	return meal
}
