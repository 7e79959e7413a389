// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/utils"
)

type OrderService struct {
	db    *gorm.DB
	carts *CartService
}

func NewOrderService(db *gorm.DB, carts *CartService) *OrderService {
	return &OrderService{db: db, carts: carts}
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=100"`
}

type ShippingAddressRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,max=20"`
	Country   string `json:"country" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"required,il_phone"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=credit_card paypal bank_transfer cash_on_delivery"`
	Notes           string                 `json:"notes" validate:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status            string     `json:"status" validate:"required"`
	TrackingNumber    *string    `json:"tracking_number" validate:"omitempty,max=100"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

type OrderFilters struct {
	Status        string
	PaymentStatus string
}

type OrderStats struct {
	TotalOrders  int64            `json:"totalOrders"`
	ByStatus     map[string]int64 `json:"byStatus"`
	TotalRevenue float64          `json:"totalRevenue"`
	Recent       []models.Order   `json:"recent"`
}

var orderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"status":       true,
	"order_number": true,
}

// Create places an order in a single transaction: snapshot the products,
// reserve stock line by line, mint the order number and clear the buyer's
// cart. Any failure rolls the whole thing back, so stock is never held by
// an order that was not created.
func (s *OrderService) Create(userID uuid.UUID, req CreateOrderRequest) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var items []models.OrderItem
		var total float64

		for _, line := range req.Items {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return fmt.Errorf("%w: bad product id %q", ErrProductNotFound, line.ProductID)
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return fmt.Errorf("failed to look up product: %w", err)
			}

			if err := decreaseStock(tx, productID, line.Quantity); err != nil {
				return fmt.Errorf("%s: %w", product.Name, err)
			}

			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
				ImageURL:    product.ImageURL,
			})
			total += product.Price * float64(line.Quantity)
		}

		number, err := s.nextOrderNumber(tx)
		if err != nil {
			return err
		}

		country := req.ShippingAddress.Country
		if country == "" {
			country = "Israel"
		}

		order = models.Order{
			UserID:      userID,
			OrderNumber: number,
			Items:       items,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			ShippingAddress: models.ShippingAddress{
				FirstName: req.ShippingAddress.FirstName,
				LastName:  req.ShippingAddress.LastName,
				Street:    req.ShippingAddress.Street,
				City:      req.ShippingAddress.City,
				ZipCode:   req.ShippingAddress.ZipCode,
				Country:   country,
				Phone:     req.ShippingAddress.Phone,
			},
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.PaymentStatusPending,
			Notes:         req.Notes,
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return s.carts.ClearForCheckout(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// nextOrderNumber mints ORD<yymmdd><seq> from a per-day counter row. The
// upsert bumps the counter atomically, so two concurrent checkouts on the
// same day get distinct sequence values.
func (s *OrderService) nextOrderNumber(tx *gorm.DB) (string, error) {
	day := time.Now().Format("060102")

	var seq int
	err := tx.Raw(`
		INSERT INTO order_counters (day, seq) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`, day).Scan(&seq).Error
	if err != nil {
		return "", fmt.Errorf("failed to mint order number: %w", err)
	}

	return fmt.Sprintf("ORD%s%03d", day, seq), nil
}

func (s *OrderService) List(filters OrderFilters, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	query = utils.ApplySort(query, params, orderSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) ListByUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	query = utils.ApplySort(query, params, orderSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

// GetByID returns an order visible to the requester. Customers can only
// see their own orders.
func (s *OrderService) GetByID(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if !isAdmin && order.UserID != requesterID {
		return nil, ErrForbidden
	}

	return &order, nil
}

// UpdateStatus moves an order to a new status. Any transition between
// the known states is accepted; setting cancelled restores stock and
// flips a captured payment to refunded, but only on the first pass, so
// stock goes back exactly once. Delivered stamps the delivery time.
func (s *OrderService) UpdateStatus(id uuid.UUID, req UpdateOrderStatusRequest) (*models.Order, error) {
	status := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.Status)
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		updates := map[string]interface{}{"status": status}

		if status == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled {
			if err := s.restoreStock(tx, &order); err != nil {
				return err
			}
			if order.PaymentStatus == models.PaymentStatusPaid {
				updates["payment_status"] = models.PaymentStatusRefunded
			}
		}

		if status == models.OrderStatusDelivered && order.DeliveredAt == nil {
			now := time.Now()
			updates["delivered_at"] = &now
		}
		if req.TrackingNumber != nil {
			updates["tracking_number"] = *req.TrackingNumber
		}
		if req.EstimatedDelivery != nil {
			updates["estimated_delivery"] = req.EstimatedDelivery
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id, order.UserID, true)
}

// Cancel lets a customer back out of an order that has not started
// processing. Stock goes back and a captured payment is marked refunded.
func (s *OrderService) Cancel(id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to get order: %w", err)
		}

		if !isAdmin && order.UserID != requesterID {
			return ErrForbidden
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return ErrInvalidTransition
		}

		if err := s.restoreStock(tx, &order); err != nil {
			return err
		}

		updates := map[string]interface{}{"status": models.OrderStatusCancelled}
		if order.PaymentStatus == models.PaymentStatusPaid {
			updates["payment_status"] = models.PaymentStatusRefunded
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(id, requesterID, isAdmin)
}

func (s *OrderService) restoreStock(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		if err := increaseStock(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Stats aggregates order counts per status and revenue over everything
// that was not cancelled.
func (s *OrderService) Stats() (*OrderStats, error) {
	stats := &OrderStats{ByStatus: make(map[string]int64)}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order statuses: %w", err)
	}
	for _, sc := range counts {
		stats.ByStatus[sc.Status] = sc.Count
	}

	err = s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	err = s.db.Preload("Items").
		Order("created_at DESC").
		Limit(5).
		Find(&stats.Recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}

	return stats, nil
}
