package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmployeeHashesPasswordAndStoresPhones(t *testing.T) {
	db := setupTestDB(t)
	service := NewEmployeeService(db)
	ctx := context.Background()

	employee, err := service.CreateEmployee(ctx, models.Employee{
		Username:     "john",
		Name:         "John Doe",
		Salary:       50000,
		Position:     "Manager",
		Address:      "123 Main St",
		Password:     "s3cret",
		PhoneNumbers: []models.PhoneNumber{{Number: "1234567890"}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", employee.Password)

	stored, err := service.GetEmployee(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, stored.PhoneNumbers, 1)
	assert.Equal(t, "1234567890", stored.PhoneNumbers[0].Number)

	authenticated, err := service.Authenticate(ctx, "john", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, employee.ID, authenticated.ID)
	assert.Equal(t, models.RoleUser, authenticated.Role())

	_, err = service.Authenticate(ctx, "john", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = service.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = service.CreateEmployee(ctx, models.Employee{Username: "john", Password: "other"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateEmployee(t *testing.T) {
	db := setupTestDB(t)
	service := NewEmployeeService(db)
	ctx := context.Background()
	employee, err := service.CreateEmployee(ctx, models.Employee{
		Username:     "john",
		Password:     "s3cret",
		PhoneNumbers: []models.PhoneNumber{{Number: "111"}, {Number: "222"}},
	})
	require.NoError(t, err)

	position := "Chef"
	phones := []string{"333"}
	updated, err := service.UpdateEmployee(ctx, employee.ID, EmployeePatch{Position: &position, PhoneNumbers: &phones})
	require.NoError(t, err)
	assert.Equal(t, "Chef", updated.Position)
	require.Len(t, updated.PhoneNumbers, 1)
	assert.Equal(t, "333", updated.PhoneNumbers[0].Number)

	_, err = service.Authenticate(ctx, "john", "s3cret")
	assert.NoError(t, err)

	_, err = service.UpdateEmployee(ctx, 999, EmployeePatch{Position: &position})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEmployeeCascades(t *testing.T) {
	db := setupTestDB(t)
	employees := NewEmployeeService(db)
	orders := NewOrderService(db, nil)
	ctx := context.Background()
	employee, err := employees.CreateEmployee(ctx, models.Employee{
		Username:     "john",
		Password:     "s3cret",
		PhoneNumbers: []models.PhoneNumber{{Number: "111"}},
	})
	require.NoError(t, err)
	meal := createMeal(t, db, "Burger", 3, 4)

	_, err = orders.PlaceOrder(ctx, PlaceOrderInput{EmployeeID: employee.ID, MealIDs: []uint{meal.ID, meal.ID}})
	require.NoError(t, err)
	done, err := orders.PlaceOrder(ctx, PlaceOrderInput{EmployeeID: employee.ID, MealIDs: []uint{meal.ID}, Completed: true})
	require.NoError(t, err)
	require.True(t, done.Completed)

	require.NoError(t, employees.DeleteEmployee(ctx, employee.ID))

	// Only the uncompleted order hands its meals back.
	after := reloadMeal(t, db, meal.ID)
	assert.Equal(t, 3, after.Capacity)
	assert.Equal(t, 1, after.Sales)

	var phones, orderCount int64
	db.Model(&models.PhoneNumber{}).Count(&phones)
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, phones)
	assert.Zero(t, orderCount)

	assert.ErrorIs(t, employees.DeleteEmployee(ctx, employee.ID), ErrNotFound)
}

func TestPhoneNumberService(t *testing.T) {
	db := setupTestDB(t)
	service := NewPhoneNumberService(db)
	ctx := context.Background()
	employee := createEmployee(t, db, "john")

	_, err := service.CreatePhoneNumber(ctx, models.PhoneNumber{EmployeeID: 999, Number: "1"})
	assert.ErrorIs(t, err, ErrNotFound)

	phone, err := service.CreatePhoneNumber(ctx, models.PhoneNumber{EmployeeID: employee.ID, Number: "555"})
	require.NoError(t, err)

	phone.Number = "556"
	updated, err := service.UpdatePhoneNumber(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "556", updated.Number)

	phones, err := service.ListPhoneNumbers(ctx)
	require.NoError(t, err)
	assert.Len(t, phones, 1)

	require.NoError(t, service.DeletePhoneNumber(ctx, phone.ID))
	assert.ErrorIs(t, service.DeletePhoneNumber(ctx, phone.ID), ErrNotFound)
}
