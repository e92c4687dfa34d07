package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceOrderInput is a request to place an order. A meal ID repeated n times
// orders n units of that meal.
type PlaceOrderInput struct {
	EmployeeID uint
	MealIDs    []uint
	DelFlag    bool
	Completed  bool
}

// OrderFlagsUpdate carries the only fields an order accepts after placement.
type OrderFlagsUpdate struct {
	Completed *bool
	DelFlag   *bool
}

// OrderService places, reads, flags and cancels orders while keeping meal
// inventory consistent with them.
type OrderService interface {
	// PlaceOrder validates stock, moves inventory and stores the order with its lines
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (models.Order, error)
	// ListOrders retrieves all orders in insertion order
	ListOrders(ctx context.Context) ([]models.Order, error)
	// ListOrdersByEmployee retrieves an employee's orders in insertion order
	ListOrdersByEmployee(ctx context.Context, employeeID uint) ([]models.Order, error)
	// GetOrder retrieves an order with its lines
	GetOrder(ctx context.Context, id uint) (models.Order, error)
	// UpdateOrderFlags sets the completed and del_flag fields
	UpdateOrderFlags(ctx context.Context, id uint, update OrderFlagsUpdate) (models.Order, error)
	// DeleteOrder removes an order, returning its meals to inventory unless it was completed
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	db        *gorm.DB
	publisher EventPublisher
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, publisher EventPublisher) OrderService {
	return &orderService{db: db, publisher: publisher}
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (models.Order, error) {
	if len(in.MealIDs) == 0 {
		return models.Order{}, fmt.Errorf("%w: an order needs at least one meal", ErrBadRequest)
	}

	// Distinct IDs keep first-seen order so lines follow the request.
	counts := make(map[uint]int, len(in.MealIDs))
	distinct := make([]uint, 0, len(in.MealIDs))
	for _, id := range in.MealIDs {
		if counts[id] == 0 {
			distinct = append(distinct, id)
		}
		counts[id]++
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.Select("id").First(&employee, in.EmployeeID).Error; err != nil {
			return notFound(err, "employee", in.EmployeeID)
		}

		var meals []models.Meal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", distinct).
			Order("id").
			Find(&meals).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Meal, len(meals))
		for _, meal := range meals {
			byID[meal.ID] = meal
		}

		for _, id := range distinct {
			meal, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: meal %d", ErrNotFound, id)
			}
			if counts[id] > meal.Capacity {
				return fmt.Errorf("%w: meal %d has %d left, %d requested", ErrUnavailable, id, meal.Capacity, counts[id])
			}
		}

		for _, id := range distinct {
			if err := reserveMeal(tx, id, counts[id]); err != nil {
				return err
			}
		}

		var price float64
		for _, id := range in.MealIDs {
			price += byID[id].Price
		}

		order = models.Order{
			EmployeeID: in.EmployeeID,
			Price:      price,
			DelFlag:    in.DelFlag,
			Completed:  in.Completed,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		lines := make([]models.OrderLine, 0, len(distinct))
		for _, id := range distinct {
			lines = append(lines, models.OrderLine{OrderID: order.ID, MealID: id, Quantity: counts[id]})
		}
		if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
			return err
		}

		for i := range lines {
			meal := byID[lines[i].MealID]
			meal.Capacity -= lines[i].Quantity
			meal.Sales += lines[i].Quantity
			lines[i].Meal = meal
		}
		order.Lines = lines
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"employee_id": order.EmployeeID,
		"price":       order.Price,
		"lines":       len(order.Lines),
	}).Info("Order placed")
	publish(ctx, s.publisher, orderEvent(EventOrderPlaced, order))
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.WithContext(ctx).Preload("Lines.Meal").Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListOrdersByEmployee(ctx context.Context, employeeID uint) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	var employee models.Employee
	if err := db.Select("id").First(&employee, employeeID).Error; err != nil {
		return nil, notFound(err, "employee", employeeID)
	}

	orders := []models.Order{}
	if err := db.Preload("Lines.Meal").Where("employee_id = ?", employeeID).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Lines.Meal").First(&order, id).Error; err != nil {
		return models.Order{}, notFound(err, "order", id)
	}
	return order, nil
}

func (s *orderService) UpdateOrderFlags(ctx context.Context, id uint, update OrderFlagsUpdate) (models.Order, error) {
	if update.Completed == nil && update.DelFlag == nil {
		return models.Order{}, fmt.Errorf("%w: only completed and del_flag can be updated", ErrBadRequest)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		updates := map[string]interface{}{}
		if update.Completed != nil {
			updates["completed"] = *update.Completed
		}
		if update.DelFlag != nil {
			updates["del_flag"] = *update.DelFlag
		}
		return tx.Model(&order).Updates(updates).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	publish(ctx, s.publisher, orderEvent(EventOrderUpdated, order))
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		return deleteOrderTx(tx, &order)
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"completed": order.Completed,
	}).Info("Order deleted")
	publish(ctx, s.publisher, orderEvent(EventOrderCancelled, order))
	return nil
}

// deleteOrderTx removes an order loaded with its lines, together with its
// lines and deliveries. Inventory is restored only for orders that were never
// completed, since a completed order's consumption is final.
func deleteOrderTx(tx *gorm.DB, order *models.Order) error {
	if !order.Completed {
		for _, line := range order.Lines {
			if err := releaseMeal(tx, line.MealID, line.Quantity); err != nil {
				return err
			}
		}
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.Delivery{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Order{}, order.ID).Error
}

func orderEvent(eventType EventType, order models.Order) Event {
	return Event{
		Type:       eventType,
		OrderID:    order.ID,
		EmployeeID: order.EmployeeID,
		Price:      order.Price,
		DelFlag:    order.DelFlag,
		Completed:  order.Completed,
	}
}
