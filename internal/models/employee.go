package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Employee is both a directory record and the identity used for authentication.
type Employee struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Username     string        `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string        `json:"email"`
	Name         string        `json:"name" gorm:"size:100"`
	Salary       float64       `json:"salary"`
	Position     string        `json:"position" gorm:"size:100"`
	Address      string        `json:"address" gorm:"size:100"`
	IsStaff      bool          `json:"is_staff" gorm:"not null;default:false"`
	Password     string        `json:"-" gorm:"not null"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers" gorm:"foreignKey:EmployeeID"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

// Role maps the staff flag to the role carried in access tokens.
func (e *Employee) Role() string {
	if e.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}

// HashPassword replaces the plain password with its bcrypt hash.
func (e *Employee) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.Password = string(hashed)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password)) == nil
}

// PhoneNumber belongs to exactly one employee.
type PhoneNumber struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EmployeeID uint      `json:"employee_id" gorm:"not null;index"`
	Number     string    `json:"number" gorm:"size:32;not null"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
