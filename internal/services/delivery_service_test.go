package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDeliveryGate(t *testing.T) {
	testCases := []struct {
		name      string
		delFlag   bool
		completed bool
		allowed   bool
		reason    string
	}{
		{name: "requested and open", delFlag: true, completed: false, allowed: true},
		{name: "requested but completed", delFlag: true, completed: true, reason: "already completed"},
		{name: "not requested", delFlag: false, completed: false, reason: "not requested"},
		{name: "not requested and completed", delFlag: false, completed: true, reason: "not requested"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDeliveryGate(models.Order{ID: 1, DelFlag: tt.delFlag, Completed: tt.completed})
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrRejected)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestCreateDelivery(t *testing.T) {
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	orders := NewOrderService(db, nil)
	service := NewDeliveryService(db, publisher)
	employee := createEmployee(t, db, "john")
	meal := createMeal(t, db, "Burger", 3, 10)

	place := func(delFlag, completed bool) models.Order {
		order, err := orders.PlaceOrder(context.Background(), PlaceOrderInput{
			EmployeeID: employee.ID,
			MealIDs:    []uint{meal.ID},
			DelFlag:    delFlag,
			Completed:  completed,
		})
		require.NoError(t, err)
		return order
	}

	t.Run("gate open", func(t *testing.T) {
		order := place(true, false)
		delivery, err := service.CreateDelivery(context.Background(), models.Delivery{Name: "John", Address: "Desk 4", OrderID: order.ID})
		require.NoError(t, err)
		assert.NotZero(t, delivery.ID)

		// No uniqueness per order.
		_, err = service.CreateDelivery(context.Background(), models.Delivery{Name: "John", Address: "Desk 5", OrderID: order.ID})
		require.NoError(t, err)
	})

	t.Run("gate closed", func(t *testing.T) {
		for _, flags := range [][2]bool{{false, false}, {true, true}, {false, true}} {
			order := place(flags[0], flags[1])
			_, err := service.CreateDelivery(context.Background(), models.Delivery{Name: "John", Address: "Desk 4", OrderID: order.ID})
			assert.ErrorIs(t, err, ErrRejected)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := service.CreateDelivery(context.Background(), models.Delivery{Name: "John", OrderID: 999})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	deliveries, err := service.ListDeliveries(context.Background())
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
	assert.Equal(t, []EventType{EventDeliveryCreated, EventDeliveryCreated}, publisher.types())
}

func TestUpdateAndDeleteDelivery(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db, nil)
	service := NewDeliveryService(db, nil)
	employee := createEmployee(t, db, "john")
	meal := createMeal(t, db, "Burger", 3, 10)
	order, err := orders.PlaceOrder(context.Background(), PlaceOrderInput{EmployeeID: employee.ID, MealIDs: []uint{meal.ID}, DelFlag: true})
	require.NoError(t, err)
	delivery, err := service.CreateDelivery(context.Background(), models.Delivery{Name: "John", Address: "Desk 4", OrderID: order.ID})
	require.NoError(t, err)

	address := "Desk 9"
	updated, err := service.UpdateDelivery(context.Background(), delivery.ID, DeliveryPatch{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "Desk 9", updated.Address)
	assert.Equal(t, "John", updated.Name)
	assert.Equal(t, order.ID, updated.OrderID)

	require.NoError(t, service.DeleteDelivery(context.Background(), delivery.ID))
	assert.ErrorIs(t, service.DeleteDelivery(context.Background(), delivery.ID), ErrNotFound)
	_, err = service.GetDelivery(context.Background(), delivery.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
