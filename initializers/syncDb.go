package initializers

import (
	"log"

	"github.com/ndiayedev/jokkoshop-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Promotion{},
		&models.PromotionProduct{},
		&models.Order{},
		&models.OrderLine{},
		&models.Delivery{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("Database synced successfully.")
}
