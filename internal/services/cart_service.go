// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
)

// MaxItemQuantity caps a single cart line. It bounds one request, not the
// whole cart.
const MaxItemQuantity = 100

// CartOwner identifies whose cart an operation targets. A user identity
// takes precedence over a browser session token.
type CartOwner struct {
	UserID    *uuid.UUID
	SessionID string
}

type CartService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewCartService(db *gorm.DB, ttlDays int) *CartService {
	return &CartService{
		db:  db,
		ttl: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// CartItemView pairs a live product with the quantity held in the cart.
// Subtotal always reflects the current price, not the price at add time.
type CartItemView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

type CartSummary struct {
	Items       []CartItemView `json:"items"`
	TotalItems  int            `json:"totalItems"`
	TotalAmount float64        `json:"totalAmount"`
	ExpiresAt   *time.Time     `json:"expiresAt,omitempty"`
}

// Get returns the owner's cart, pruned of products that no longer exist
// or went out of stock. A missing or expired cart reads as empty.
func (s *CartService) Get(owner CartOwner) (*CartSummary, error) {
	cart, err := s.findCart(s.db, owner)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return &CartSummary{Items: []CartItemView{}}, nil
		}
		return nil, err
	}
	return s.summarize(cart)
}

// AddItem puts quantity units of a product in the cart, creating the cart
// if needed. Adding a product already present sums the quantities.
func (s *CartService) AddItem(owner CartOwner, productID uuid.UUID, quantity int) (*CartSummary, error) {
	if quantity < 1 || quantity > MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}

	var cart *models.Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = s.getOrCreateCart(tx, owner)
		if err != nil {
			return err
		}
		return s.addItemTx(tx, cart, productID, quantity)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(cart.ID)
}

// UpdateItem sets the quantity of an existing cart line. Zero removes
// the line with remove semantics, so a missing line is not an error.
func (s *CartService) UpdateItem(owner CartOwner, productID uuid.UUID, quantity int) (*CartSummary, error) {
	if quantity < 0 || quantity > MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(owner, productID)
	}

	var cartID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.findCart(tx, owner)
		if err != nil {
			return err
		}
		cartID = cart.ID

		item := cart.Item(productID)
		if item == nil {
			return ErrCartItemNotFound
		}

		product, err := s.availableProduct(tx, productID)
		if err != nil {
			return err
		}
		if product.StockQuantity < quantity {
			return ErrInsufficientStock
		}

		err = tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Update("quantity", quantity).Error
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return s.touch(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(cartID)
}

// RemoveItem drops a product from the cart. It is idempotent: a missing
// cart or an absent line reads back as an empty success.
func (s *CartService) RemoveItem(owner CartOwner, productID uuid.UUID) (*CartSummary, error) {
	var cartID uuid.UUID
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.findCart(tx, owner)
		if err != nil {
			if errors.Is(err, ErrCartNotFound) {
				return nil
			}
			return err
		}
		found = true
		cartID = cart.ID

		if err := tx.Delete(&models.CartItem{}, "cart_id = ? AND product_id = ?", cart.ID, productID).Error; err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return s.touch(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return &CartSummary{Items: []CartItemView{}}, nil
	}

	return s.reload(cartID)
}

// Clear empties the cart but keeps the cart row, so the session token
// stays valid.
func (s *CartService) Clear(owner CartOwner) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.findCart(tx, owner)
		if err != nil {
			if errors.Is(err, ErrCartNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return s.touch(tx, cart)
	})
}

// Merge folds a session cart into the authenticated user's cart after
// login. When the user has no cart yet the session cart is reassigned
// wholesale; otherwise each line is folded with add semantics and lines
// that fail stock validation are skipped. The session cart is gone either
// way.
func (s *CartService) Merge(sessionID string, userID uuid.UUID) (*CartSummary, error) {
	if sessionID == "" {
		return s.Get(CartOwner{UserID: &userID})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		sessionCart, err := s.findCart(tx, CartOwner{SessionID: sessionID})
		if err != nil {
			if errors.Is(err, ErrCartNotFound) {
				return nil
			}
			return err
		}

		userCart, err := s.findCart(tx, CartOwner{UserID: &userID})
		if errors.Is(err, ErrCartNotFound) {
			// Reassign the whole cart. The session token stops resolving
			// to it from here on.
			updates := map[string]interface{}{
				"user_id":    userID,
				"session_id": nil,
				"expires_at": time.Now().Add(s.ttl),
			}
			if err := tx.Model(sessionCart).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to reassign cart: %w", err)
			}
			return nil
		}
		if err != nil {
			return err
		}

		for _, item := range sessionCart.Items {
			if err := s.addItemTx(tx, userCart, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrInvalidQuantity) {
					continue
				}
				return err
			}
		}

		return s.deleteCart(tx, sessionCart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(CartOwner{UserID: &userID})
}

// ClearForCheckout empties the user's cart inside the given transaction.
// Called by the order workflow after stock is reserved.
func (s *CartService) ClearForCheckout(tx *gorm.DB, userID uuid.UUID) error {
	cart, err := s.findCart(tx, CartOwner{UserID: &userID})
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return s.touch(tx, cart)
}

func (s *CartService) addItemTx(tx *gorm.DB, cart *models.Cart, productID uuid.UUID, quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return ErrInvalidQuantity
	}

	product, err := s.availableProduct(tx, productID)
	if err != nil {
		return err
	}

	var existing models.CartItem
	err = tx.First(&existing, "cart_id = ? AND product_id = ?", cart.ID, productID).Error
	switch {
	case err == nil:
		newQuantity := existing.Quantity + quantity
		if product.StockQuantity < newQuantity {
			return ErrInsufficientStock
		}
		err = tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Update("quantity", newQuantity).Error
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if product.StockQuantity < quantity {
			return ErrInsufficientStock
		}
		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up cart item: %w", err)
	}

	return s.touch(tx, cart)
}

func (s *CartService) availableProduct(tx *gorm.DB, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if !product.Available() {
		return nil, ErrInsufficientStock
	}
	return &product, nil
}

// findCart resolves the owner's cart, preferring the user identity when
// both are present. Expired carts are deleted on sight and read as
// missing.
func (s *CartService) findCart(tx *gorm.DB, owner CartOwner) (*models.Cart, error) {
	query := tx.Preload("Items")
	switch {
	case owner.UserID != nil:
		query = query.Where("user_id = ?", *owner.UserID)
	case owner.SessionID != "":
		query = query.Where("session_id = ?", owner.SessionID)
	default:
		return nil, ErrCartNotFound
	}

	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to look up cart: %w", err)
	}

	if time.Now().After(cart.ExpiresAt) {
		if err := s.deleteCart(tx, cart.ID); err != nil {
			return nil, err
		}
		return nil, ErrCartNotFound
	}

	return &cart, nil
}

func (s *CartService) getOrCreateCart(tx *gorm.DB, owner CartOwner) (*models.Cart, error) {
	cart, err := s.findCart(tx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	newCart := models.Cart{ExpiresAt: time.Now().Add(s.ttl)}
	switch {
	case owner.UserID != nil:
		newCart.UserID = owner.UserID
	case owner.SessionID != "":
		sessionID := owner.SessionID
		newCart.SessionID = &sessionID
	default:
		return nil, ErrCartNotFound
	}

	if err := tx.Create(&newCart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &newCart, nil
}

func (s *CartService) deleteCart(tx *gorm.DB, cartID uuid.UUID) error {
	if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if err := tx.Delete(&models.Cart{}, "id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (s *CartService) touch(tx *gorm.DB, cart *models.Cart) error {
	if err := tx.Model(cart).Update("expires_at", time.Now().Add(s.ttl)).Error; err != nil {
		return fmt.Errorf("failed to refresh cart expiry: %w", err)
	}
	return nil
}

func (s *CartService) reload(cartID uuid.UUID) (*CartSummary, error) {
	var cart models.Cart
	if err := s.db.Preload("Items").First(&cart, "id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartSummary{Items: []CartItemView{}}, nil
		}
		return nil, fmt.Errorf("failed to reload cart: %w", err)
	}
	return s.summarize(&cart)
}

// summarize joins cart lines against live products. Lines whose product
// vanished or went out of stock are dropped and the removal is persisted,
// so the next read starts clean.
func (s *CartService) summarize(cart *models.Cart) (*CartSummary, error) {
	summary := &CartSummary{Items: []CartItemView{}}
	expiresAt := cart.ExpiresAt
	summary.ExpiresAt = &expiresAt

	var stale []uuid.UUID
	for _, item := range cart.Items {
		var product models.Product
		err := s.db.First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stale = append(stale, item.ProductID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up product: %w", err)
		}
		if !product.Available() {
			stale = append(stale, item.ProductID)
			continue
		}

		summary.Items = append(summary.Items, CartItemView{
			Product:  product,
			Quantity: item.Quantity,
			Subtotal: product.Price * float64(item.Quantity),
		})
		summary.TotalItems += item.Quantity
		summary.TotalAmount += product.Price * float64(item.Quantity)
	}

	if len(stale) > 0 {
		err := s.db.Delete(&models.CartItem{}, "cart_id = ? AND product_id IN ?", cart.ID, stale).Error
		if err != nil {
			return nil, fmt.Errorf("failed to prune cart: %w", err)
		}
	}

	return summary, nil
}
