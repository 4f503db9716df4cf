package models

import "time"

type Sale struct {
	ID        string     `gorm:"primaryKey;size:36"`
	TenantID  string     `gorm:"index;size:36;not null"`
	Total     float64    `gorm:"not null"`
	Items     []SaleItem `gorm:"foreignKey:SaleID"`
	CreatedAt time.Time
}

type SaleItem struct {
	ID          uint   `gorm:"primaryKey"`
	SaleID      string `gorm:"index;size:36;not null"`
	ProductID   string `gorm:"size:36;not null"`
	ProductName string `gorm:"size:200;not null"` // denormalized, sales survive product deletion
	Quantity    int    `gorm:"not null"`
	UnitPrice   float64
}
