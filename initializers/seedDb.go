package initializers

import (
	"os"
	"time"

	"github.com/Nii-Armah/adomi-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// SeedDatabase seeds the admin account and a demo catalog. A failed seed
// is retried once after a fixed delay so the API can come up while the
// database is still warming.
func SeedDatabase() {
	if err := seed(); err != nil {
		Log.Warn().Err(err).Msg("seeding failed, retrying in 5s")
		time.Sleep(5 * time.Second)
		if err := seed(); err != nil {
			Log.Error().Err(err).Msg("seeding failed")
		}
	}
}

func seed() error {
	if err := seedAdmin(); err != nil {
		return err
	}
	return seedProducts()
}

func seedAdmin() error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		FirstName: "Admin",
		LastName:  "User",
		Username:  "admin",
		Email:     adminEmail,
		Password:  string(hash),
		Role:      "admin",
		Activated: true,
	}
	return DB.Create(&admin).Error
}

func seedProducts() error {
	var count int64
	if err := DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{
			Brand:       "Angular",
			Name:        "Angular Speedster Board 2000",
			Description: "Fast and responsive board for daily commutes.",
			Price:       20000,
			Category:    "boards",
			PictureUrl:  "/images/products/sb-ang1.png",
			Colors:      datatypes.JSON([]byte(`["red","blue"]`)),
		},
		{
			Brand:       "NetCore",
			Name:        "Core Board Speed Rush 3",
			Description: "A board for speed lovers with carbon finish.",
			Price:       15000,
			Category:    "boards",
			PictureUrl:  "/images/products/sb-core1.png",
			Colors:      datatypes.JSON([]byte(`["black"]`)),
		},
		{
			Brand:       "VS Code",
			Name:        "Blue Code Gloves",
			Description: "Warm gloves with grip pads for cold mornings.",
			Price:       1800,
			Category:    "gloves",
			PictureUrl:  "/images/products/glove-code1.png",
			Colors:      datatypes.JSON([]byte(`["blue"]`)),
		},
	}
	return DB.Create(&products).Error
}
