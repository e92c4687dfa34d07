package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"gorm.io/gorm"
)

type PhoneNumberService interface {
	ListPhoneNumbers(ctx context.Context) ([]models.PhoneNumber, error)
	GetPhoneNumber(ctx context.Context, id uint) (models.PhoneNumber, error)
	CreatePhoneNumber(ctx context.Context, phone models.PhoneNumber) (models.PhoneNumber, error)
	UpdatePhoneNumber(ctx context.Context, phone models.PhoneNumber) (models.PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, id uint) error
}

type phoneNumberService struct {
	db *gorm.DB
}

func NewPhoneNumberService(db *gorm.DB) PhoneNumberService {
	return &phoneNumberService{db: db}
}

func (s *phoneNumberService) ListPhoneNumbers(ctx context.Context) ([]models.PhoneNumber, error) {
	phones := []models.PhoneNumber{}
	if err := s.db.WithContext(ctx).Order("id").Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}

func (s *phoneNumberService) GetPhoneNumber(ctx context.Context, id uint) (models.PhoneNumber, error) {
	var phone models.PhoneNumber
	if err := s.db.WithContext(ctx).First(&phone, id).Error; err != nil {
		return models.PhoneNumber{}, notFound(err, "phone number", id)
	}
	return phone, nil
}

func (s *phoneNumberService) CreatePhoneNumber(ctx context.Context, phone models.PhoneNumber) (models.PhoneNumber, error) {
	phone.ID = 0
	db := s.db.WithContext(ctx)
	if err := ensureEmployeeExists(db, phone.EmployeeID); err != nil {
		return models.PhoneNumber{}, err
	}
	if err := db.Create(&phone).Error; err != nil {
		return models.PhoneNumber{}, err
	}
	return phone, nil
}

// UpdatePhoneNumber may move a number to another existing employee.
func (s *phoneNumberService) UpdatePhoneNumber(ctx context.Context, phone models.PhoneNumber) (models.PhoneNumber, error) {
	existing, err := s.GetPhoneNumber(ctx, phone.ID)
	if err != nil {
		return models.PhoneNumber{}, err
	}
	db := s.db.WithContext(ctx)
	if err := ensureEmployeeExists(db, phone.EmployeeID); err != nil {
		return models.PhoneNumber{}, err
	}
	phone.CreatedAt = existing.CreatedAt
	if err := db.Save(&phone).Error; err != nil {
		return models.PhoneNumber{}, err
	}
	return phone, nil
}

func (s *phoneNumberService) DeletePhoneNumber(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.PhoneNumber{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: phone number %d", ErrNotFound, id)
	}
	return nil
}

func ensureEmployeeExists(db *gorm.DB, id uint) error {
	var employee models.Employee
	if err := db.Select("id").First(&employee, id).Error; err != nil {
		return notFound(err, "employee", id)
	}
	return nil
}
