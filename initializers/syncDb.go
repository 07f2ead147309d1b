package initializers

import (
	"github.com/Nii-Armah/adomi-api/models"
)

func SyncDatabase() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecs{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		Log.Fatal().Err(err).Msg("failed to migrate database")
	}
	Log.Info().Msg("database synced successfully")
}
