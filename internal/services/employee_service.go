package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeePatch carries the fields of a partial employee update. The password
// is not updatable this way. A non-nil PhoneNumbers replaces the employee's numbers.
type EmployeePatch struct {
	Username     *string
	Email        *string
	Name         *string
	Salary       *float64
	Position     *string
	Address      *string
	IsStaff      *bool
	PhoneNumbers *[]string
}

type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (models.Employee, error)
	// CreateEmployee stores an employee with a plain password, which is hashed first
	CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, patch EmployeePatch) (models.Employee, error)
	// DeleteEmployee removes an employee with everything they own
	DeleteEmployee(ctx context.Context, id uint) error
	// Authenticate resolves an employee by username and password
	Authenticate(ctx context.Context, username, password string) (models.Employee, error)
}

type employeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) EmployeeService {
	return &employeeService{db: db}
}

func (s *employeeService) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	if err := s.db.WithContext(ctx).Preload("PhoneNumbers").Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Preload("PhoneNumbers").First(&employee, id).Error; err != nil {
		return models.Employee{}, notFound(err, "employee", id)
	}
	return employee, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	employee.ID = 0
	if employee.Password == "" {
		return models.Employee{}, fmt.Errorf("%w: password is required", ErrBadRequest)
	}
	if err := employee.HashPassword(); err != nil {
		return models.Employee{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, employee.Username, 0); err != nil {
			return err
		}
		phones := employee.PhoneNumbers
		employee.PhoneNumbers = nil
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		for i := range phones {
			phones[i].ID = 0
			phones[i].EmployeeID = employee.ID
		}
		if len(phones) > 0 {
			if err := tx.Create(&phones).Error; err != nil {
				return err
			}
		}
		employee.PhoneNumbers = phones
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	logrus.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"username":    employee.Username,
	}).Info("Employee created")
	return employee, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id uint, patch EmployeePatch) (models.Employee, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			return notFound(err, "employee", id)
		}

		updates := map[string]interface{}{}
		if patch.Username != nil {
			if err := ensureUsernameFree(tx, *patch.Username, id); err != nil {
				return err
			}
			updates["username"] = *patch.Username
		}
		if patch.Email != nil {
			updates["email"] = *patch.Email
		}
		if patch.Name != nil {
			updates["name"] = *patch.Name
		}
		if patch.Salary != nil {
			updates["salary"] = *patch.Salary
		}
		if patch.Position != nil {
			updates["position"] = *patch.Position
		}
		if patch.Address != nil {
			updates["address"] = *patch.Address
		}
		if patch.IsStaff != nil {
			updates["is_staff"] = *patch.IsStaff
		}
		if len(updates) > 0 {
			if err := tx.Model(&employee).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.PhoneNumbers != nil {
			if err := tx.Where("employee_id = ?", id).Delete(&models.PhoneNumber{}).Error; err != nil {
				return err
			}
			phones := make([]models.PhoneNumber, 0, len(*patch.PhoneNumbers))
			for _, number := range *patch.PhoneNumbers {
				phones = append(phones, models.PhoneNumber{EmployeeID: id, Number: number})
			}
			if len(phones) > 0 {
				if err := tx.Create(&phones).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}
	return s.GetEmployee(ctx, id)
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, id).Error; err != nil {
			return notFound(err, "employee", id)
		}

		var orders []models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Lines").
			Where("employee_id = ?", id).
			Order("id").
			Find(&orders).Error; err != nil {
			return err
		}
		for i := range orders {
			if err := deleteOrderTx(tx, &orders[i]); err != nil {
				return err
			}
		}

		if err := tx.Where("employee_id = ?", id).Delete(&models.PhoneNumber{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.OAuthClient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&employee).Error
	})
	if err != nil {
		return err
	}

	logrus.WithField("employee_id", id).Info("Employee deleted")
	return nil
}

func (s *employeeService) Authenticate(ctx context.Context, username, password string) (models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Employee{}, ErrUnauthorized
		}
		return models.Employee{}, err
	}
	if !employee.CheckPassword(password) {
		return models.Employee{}, ErrUnauthorized
	}
	return employee, nil
}

func ensureUsernameFree(tx *gorm.DB, username string, selfID uint) error {
	var count int64
	if err := tx.Model(&models.Employee{}).
		Where("username = ? AND id <> ?", username, selfID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: username %q is already taken", ErrConflict, username)
	}
	return nil
}
