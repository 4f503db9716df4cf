package database

import (
	"log"

	"same-backend/internal/config"
	"same-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects and migrates. Unlike a hard startup dependency, a failed
// connection does not kill the process: the monitor endpoints answer in
// degraded mode while the store is unavailable, so Init returns the error
// and leaves DB nil.
func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	log.Println("database connected, migrations applied")
	return nil
}

// Migrate runs AutoMigrate for every model. Split out so tests can run the
// same schema against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Supplier{},
		&models.Sale{},
		&models.SaleItem{},
		&models.CashMovement{},
		&models.NotificationLog{},
	)
}

// Available reports whether the store was successfully initialized.
func Available() bool {
	return DB != nil
}
