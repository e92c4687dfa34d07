package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryPatch carries the mutable fields of a delivery. The order reference
// is fixed at creation.
type DeliveryPatch struct {
	Name    *string
	Address *string
}

// DeliveryService manages deliveries for orders that requested one
type DeliveryService interface {
	// ListDeliveries retrieves all deliveries ordered by ID
	ListDeliveries(ctx context.Context) ([]models.Delivery, error)
	// GetDelivery retrieves a delivery by its ID
	GetDelivery(ctx context.Context, id uint) (models.Delivery, error)
	// CreateDelivery creates a delivery if its order passes CheckDeliveryGate
	CreateDelivery(ctx context.Context, delivery models.Delivery) (models.Delivery, error)
	// UpdateDelivery changes the name and address of a delivery
	UpdateDelivery(ctx context.Context, id uint, patch DeliveryPatch) (models.Delivery, error)
	// DeleteDelivery deletes a delivery by its ID
	DeleteDelivery(ctx context.Context, id uint) error
}

// CheckDeliveryGate reports whether a delivery may be created for order.
// The order must have requested delivery and must not be completed yet.
func CheckDeliveryGate(order models.Order) error {
	if !order.DelFlag {
		return fmt.Errorf("%w: delivery was not requested for order %d", ErrRejected, order.ID)
	}
	if order.Completed {
		return fmt.Errorf("%w: order %d is already completed", ErrRejected, order.ID)
	}
	return nil
}

type deliveryService struct {
	db        *gorm.DB
	publisher EventPublisher
}

// NewDeliveryService creates a new instance of DeliveryService
func NewDeliveryService(db *gorm.DB, publisher EventPublisher) DeliveryService {
	return &deliveryService{db: db, publisher: publisher}
}

func (s *deliveryService) ListDeliveries(ctx context.Context) ([]models.Delivery, error) {
	deliveries := []models.Delivery{}
	if err := s.db.WithContext(ctx).Order("id").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, id uint) (models.Delivery, error) {
	var delivery models.Delivery
	if err := s.db.WithContext(ctx).First(&delivery, id).Error; err != nil {
		return models.Delivery{}, notFound(err, "delivery", id)
	}
	return delivery, nil
}

func (s *deliveryService) CreateDelivery(ctx context.Context, delivery models.Delivery) (models.Delivery, error) {
	delivery.ID = 0
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Holding the order row keeps the flags stable until the delivery is stored.
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).First(&order, delivery.OrderID).Error; err != nil {
			return notFound(err, "order", delivery.OrderID)
		}
		if err := CheckDeliveryGate(order); err != nil {
			return err
		}
		return tx.Create(&delivery).Error
	})
	if err != nil {
		return models.Delivery{}, err
	}

	logrus.WithFields(logrus.Fields{
		"delivery_id": delivery.ID,
		"order_id":    delivery.OrderID,
	}).Info("Delivery created")
	event := orderEvent(EventDeliveryCreated, order)
	event.DeliveryID = delivery.ID
	publish(ctx, s.publisher, event)
	return delivery, nil
}

func (s *deliveryService) UpdateDelivery(ctx context.Context, id uint, patch DeliveryPatch) (models.Delivery, error) {
	delivery, err := s.GetDelivery(ctx, id)
	if err != nil {
		return models.Delivery{}, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if len(updates) == 0 {
		return delivery, nil
	}
	if err := s.db.WithContext(ctx).Model(&delivery).Updates(updates).Error; err != nil {
		return models.Delivery{}, err
	}
	return s.GetDelivery(ctx, id)
}

func (s *deliveryService) DeleteDelivery(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Delivery{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: delivery %d", ErrNotFound, id)
	}
	return nil
}
