// internal/services/testutil_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hadarhome/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
		&models.ContactMessage{},
	))

	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:          name,
		Description:   "A sample product used in tests only",
		Price:         price,
		ImageURL:      "https://cdn.example.com/" + name + ".jpg",
		ImagePublicID: "products/" + name,
		Category:      models.CategoryHomeware,
		StockQuantity: stock,
		InStock:       stock > 0,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Phone:     "0521234567",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("secret-password-123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func testShippingAddress() ShippingAddressRequest {
	return ShippingAddressRequest{
		FirstName: "Dana",
		LastName:  "Levi",
		Street:    "12 Herzl St",
		City:      "Tel Aviv",
		ZipCode:   "6100000",
		Phone:     "0521234567",
	}
}
