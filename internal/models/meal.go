package models

import "time"

// Meal is a catalog entry. Capacity is the remaining sellable quantity and
// Sales the number of units sold so far.
type Meal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Capacity  int       `json:"capacity" gorm:"not null;default:0"`
	Sales     int       `json:"sales" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
