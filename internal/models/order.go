package models

import "time"

// Order is a set of meals placed by an employee. Price is a snapshot taken
// at placement time and never recomputed.
type Order struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	EmployeeID uint        `json:"employee_id" gorm:"not null;index"`
	Price      float64     `json:"price" gorm:"not null"`
	DelFlag    bool        `json:"del_flag" gorm:"not null;default:false"`
	Completed  bool        `json:"completed" gorm:"not null;default:false"`
	Lines      []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"-"`
}

// OrderLine records how many units of a meal belong to an order.
type OrderLine struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	OrderID  uint `json:"-" gorm:"not null;index"`
	MealID   uint `json:"meal_id" gorm:"not null;index"`
	Meal     Meal `json:"meal" gorm:"foreignKey:MealID"`
	Quantity int  `json:"quantity" gorm:"not null;default:1"`
}

// Delivery is a delivery request for an order.
type Delivery struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Address   string    `json:"address" gorm:"type:text"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
