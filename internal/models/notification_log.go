package models

import "time"

// NotificationLog records every critical-stock email that was actually
// handed to the transport. It feeds the app's notification screen; the
// sweep does NOT read it back for deduplication, so a product that stays
// critical keeps re-notifying once per sweep interval. That behavior is
// intentional and documented in the README.
type NotificationLog struct {
	ID           uint   `gorm:"primaryKey"`
	TenantID     string `gorm:"index;size:36;not null"`
	SupplierID   string `gorm:"size:36;not null"`
	SupplierName string `gorm:"size:200"`
	Email        string `gorm:"size:100;not null"`
	Subject      string `gorm:"size:255;not null"`
	// Products is the JSON payload of the notified products
	// ([{id,name,sku,quantity}]).
	Products string `gorm:"type:text"`
	SentAt   time.Time
}
