package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"gorm.io/gorm"
)

type ClientService interface {
	CreateClient(ctx context.Context, client *models.OAuthClient) error
	GetClientsByEmployeeID(ctx context.Context, employeeID uint) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, clientID string, employeeID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(ctx context.Context, client *models.OAuthClient) error {
	if err := ensureEmployeeExists(s.db.WithContext(ctx), client.EmployeeID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(client).Error
}

func (s *clientService) GetClientsByEmployeeID(ctx context.Context, employeeID uint) ([]models.OAuthClient, error) {
	clients := []models.OAuthClient{}
	if err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, notFound(err, "client", id)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, employeeID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND employee_id = ?", clientID, employeeID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	return nil
}
