package models

import "time"

// User - one account per business. The user's ID doubles as the tenant ID
// that scopes every product, supplier and cash movement.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
