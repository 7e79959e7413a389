// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:100;not null"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	Price         float64         `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL      string          `json:"image_url" gorm:"size:512;not null"`
	ImagePublicID string          `json:"image_public_id" gorm:"size:255;not null"`
	Category      ProductCategory `json:"category" gorm:"type:varchar(30);not null;index"`
	InStock       bool            `json:"in_stock" gorm:"default:true;index"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	Featured      bool            `json:"featured" gorm:"default:false;index"`
}

// Available reports whether the product can currently be added to a cart
// or ordered.
func (p *Product) Available() bool {
	return p.InStock && p.StockQuantity > 0
}
