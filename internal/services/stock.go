// internal/services/stock.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
)

// decreaseStock reserves quantity units of a product with a single
// conditional UPDATE. The WHERE clause guards against overselling: if
// another request drained the stock first, no row matches and the caller
// gets ErrInsufficientStock. in_stock is derived from the same old row
// value, so both columns stay consistent without a second round trip.
func decreaseStock(db *gorm.DB, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	result := db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"in_stock":       gorm.Expr("stock_quantity - ? > 0", quantity),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrease stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// increaseStock returns quantity units to a product, e.g. on order
// cancellation. Restocked products are always marked available again.
func increaseStock(db *gorm.DB, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	result := db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"in_stock":       true,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increase stock: %w", result.Error)
	}

	return nil
}
