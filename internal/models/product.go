package models

import "time"

type Product struct {
	ID         string `gorm:"primaryKey;size:36"`
	TenantID   string `gorm:"index;size:36;not null"`
	Name       string `gorm:"size:200;not null"`
	Quantity   int    `gorm:"not null;default:0"`
	SKU        string `gorm:"column:sku;size:50;index"` // barcode / stock code (optional)
	Unit       string `gorm:"size:20"`                  // un, kg, cx...
	Price      float64
	ExpiryDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
