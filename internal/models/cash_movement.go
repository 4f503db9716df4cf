package models

import "time"

type CashMethod string

const (
	CashMethodCash CashMethod = "cash"
	CashMethodCard CashMethod = "card"
	CashMethodPix  CashMethod = "pix"
)

type CashMovement struct {
	ID          uint       `gorm:"primaryKey"`
	TenantID    string     `gorm:"index;size:36;not null"`
	Date        time.Time  `gorm:"index;not null"`   // day granularity
	Method      CashMethod `gorm:"size:20;not null"` // cash / card / pix
	Direction   string     `gorm:"size:10;not null"` // "in" / "out"
	Amount      float64    `gorm:"not null"`
	Description string     `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
