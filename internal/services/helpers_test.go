package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createEmployee(t *testing.T, db *gorm.DB, username string) models.Employee {
	t.Helper()
	employee := models.Employee{Username: username, Name: username, Password: "x"}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}

func createMeal(t *testing.T, db *gorm.DB, name string, price float64, capacity int) models.Meal {
	t.Helper()
	meal := models.Meal{Name: name, Price: price, Capacity: capacity}
	require.NoError(t, db.Create(&meal).Error)
	return meal
}

func reloadMeal(t *testing.T, db *gorm.DB, id uint) models.Meal {
	t.Helper()
	var meal models.Meal
	require.NoError(t, db.First(&meal, id).Error)
	return meal
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
