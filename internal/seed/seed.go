// Package seed loads the initial catalog and accounts into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed default.yaml
var defaultSeed []byte

type Meal struct {
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Capacity int     `yaml:"capacity"`
}

type Employee struct {
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	Email        string   `yaml:"email"`
	Name         string   `yaml:"name"`
	Salary       float64  `yaml:"salary"`
	Position     string   `yaml:"position"`
	Address      string   `yaml:"address"`
	IsStaff      bool     `yaml:"is_staff"`
	PhoneNumbers []string `yaml:"phone_numbers"`
}

// File is the YAML seed document
type File struct {
	Meals     []Meal     `yaml:"meals"`
	Employees []Employee `yaml:"employees"`
}

// Load reads the seed at path, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	if path == "" {
		return Parse(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates YAML seed data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	for i, m := range f.Meals {
		if m.Name == "" || m.Price < 0 || m.Capacity < 0 {
			return nil, fmt.Errorf("seed meal %d: name is required, price and capacity must not be negative", i)
		}
	}
	for i, e := range f.Employees {
		if e.Username == "" || e.Password == "" {
			return nil, fmt.Errorf("seed employee %d: username and password are required", i)
		}
	}
	return &f, nil
}

// Apply inserts the seed when the meal table is empty and reports whether it did.
// Employees whose username already exists are skipped.
func Apply(ctx context.Context, db *gorm.DB, f *File) (bool, error) {
	var meals int64
	if err := db.WithContext(ctx).Model(&models.Meal{}).Count(&meals).Error; err != nil {
		return false, err
	}
	if meals > 0 {
		logrus.Debug("Catalog already populated, skipping seed")
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range f.Meals {
			meal := models.Meal{Name: m.Name, Price: m.Price, Capacity: m.Capacity}
			if err := tx.Create(&meal).Error; err != nil {
				return err
			}
		}

		for _, e := range f.Employees {
			var existing int64
			if err := tx.Model(&models.Employee{}).Where("username = ?", e.Username).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			employee := models.Employee{
				Username: e.Username,
				Password: e.Password,
				Email:    e.Email,
				Name:     e.Name,
				Salary:   e.Salary,
				Position: e.Position,
				Address:  e.Address,
				IsStaff:  e.IsStaff,
			}
			if err := employee.HashPassword(); err != nil {
				return err
			}
			for _, number := range e.PhoneNumbers {
				employee.PhoneNumbers = append(employee.PhoneNumbers, models.PhoneNumber{Number: number})
			}
			if err := tx.Create(&employee).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to apply seed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"meals":     len(f.Meals),
		"employees": len(f.Employees),
	}).Info("Database seeded")
	return true, nil
}
