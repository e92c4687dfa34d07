package services

import (
	"fmt"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"gorm.io/gorm"
)

// reserveMeal takes qty units out of a meal's capacity and adds them to its
// sales in one guarded statement. No row matches once capacity is below qty,
// so a concurrent placement can never drive capacity negative.
func reserveMeal(tx *gorm.DB, mealID uint, qty int) error {
	result := tx.Model(&models.Meal{}).
		Where("id = ? AND capacity >= ?", mealID, qty).
		UpdateColumns(map[string]interface{}{
			"capacity": gorm.Expr("capacity - ?", qty),
			"sales":    gorm.Expr("sales + ?", qty),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: meal %d", ErrUnavailable, mealID)
	}
	return nil
}

// releaseMeal returns qty units to a meal. Sales is floored at zero.
func releaseMeal(tx *gorm.DB, mealID uint, qty int) error {
	return tx.Model(&models.Meal{}).
		Where("id = ?", mealID).
		UpdateColumns(map[string]interface{}{
			"capacity": gorm.Expr("capacity + ?", qty),
			"sales":    gorm.Expr("CASE WHEN sales > ? THEN sales - ? ELSE 0 END", qty, qty),
		}).Error
}
