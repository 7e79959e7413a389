// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hadarhome/storefront/internal/middleware"
	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/services"
	"github.com/hadarhome/storefront/internal/utils"
)

const testSecret = "handler-test-secret"

func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
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

	productService := services.NewProductService(db)
	cartService := services.NewCartService(db, 30)
	orderService := services.NewOrderService(db, cartService)
	contactService := services.NewContactService(db)

	productHandler := NewProductHandler(productService)
	cartHandler := NewCartHandler(cartService)
	orderHandler := NewOrderHandler(orderService)
	contactHandler := NewContactHandler(contactService)

	r := gin.New()
	api := r.Group("/api")

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", middleware.AuthRequired(testSecret), middleware.AdminRequired(), productHandler.Create)

	cart := api.Group("/cart")
	cart.Use(middleware.OptionalAuth(testSecret))
	cart.GET("", cartHandler.Get)
	cart.GET("/count", cartHandler.Count)
	cart.POST("/add", cartHandler.AddItem)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(testSecret))
	orders.POST("", orderHandler.Create)

	contact := api.Group("/contact")
	contact.POST("", contactHandler.Create)
	adminContact := contact.Group("", middleware.AuthRequired(testSecret), middleware.AdminRequired())
	adminContact.PUT("/:id/status", contactHandler.UpdateStatus)
	adminContact.PUT("/:id/priority", contactHandler.UpdatePriority)

	return r, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Description:   "A sample product used in tests only",
		Price:         100,
		ImageURL:      "https://cdn.example.com/" + name + ".jpg",
		ImagePublicID: "products/" + name,
		Category:      models.CategoryHomeware,
		StockQuantity: stock,
		InStock:       stock > 0,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) (*models.User, string) {
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

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductListEnvelope(t *testing.T) {
	r, db := newTestEnv(t)
	seedProduct(t, db, "vase", 5)
	seedProduct(t, db, "lamp", 2)

	w := doJSON(r, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool              `json:"success"`
		Data       []models.Product  `json:"data"`
		Pagination *utils.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Pagination)
	assert.EqualValues(t, 2, resp.Pagination.TotalItems)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
}

func TestProductGetNotFound(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(r, http.MethodGet, "/api/products/6a9c0f3e-6a2f-4c4f-9d6a-111111111111", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestProductCreateRequiresAdmin(t *testing.T) {
	r, db := newTestEnv(t)
	_, customerToken := seedUser(t, db, "dana@example.com", models.RoleCustomer)
	_, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	body := map[string]interface{}{
		"name":           "Ceramic Vase",
		"description":    "Hand thrown ceramic vase in off-white",
		"price":          149.90,
		"category":       "homeware",
		"stock_quantity": 5,
	}

	w := doJSON(r, http.MethodPost, "/api/products", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/products", body, map[string]string{
		"Authorization": "Bearer " + customerToken,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/api/products", body, map[string]string{
		"Authorization": "Bearer " + adminToken,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGuestCartGetsSessionToken(t *testing.T) {
	r, db := newTestEnv(t)
	product := seedProduct(t, db, "vase", 5)

	body := map[string]interface{}{"productId": product.ID.String(), "quantity": 2}
	w := doJSON(r, http.MethodPost, "/api/cart/add", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	sessionID := w.Header().Get("X-Session-Id")
	require.NotEmpty(t, sessionID)

	// The minted token resolves to the same cart on the next request.
	w = doJSON(r, http.MethodGet, "/api/cart", nil, map[string]string{"X-Session-Id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Data    services.CartSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalItems)

	w = doJSON(r, http.MethodGet, "/api/cart/count", nil, map[string]string{"X-Session-Id": sessionID})
	require.Equal(t, http.StatusOK, w.Code)

	var countResp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &countResp))
	assert.Equal(t, 2, countResp.Data.Count)
}

func TestCartAddInsufficientStockIsBadRequest(t *testing.T) {
	r, db := newTestEnv(t)
	product := seedProduct(t, db, "vase", 1)

	body := map[string]interface{}{"productId": product.ID.String(), "quantity": 5}
	w := doJSON(r, http.MethodPost, "/api/cart/add", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactStatusAndPriorityRoutes(t *testing.T) {
	r, db := newTestEnv(t)
	_, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	msg := &models.ContactMessage{
		Name:     "Dana Levi",
		Email:    "dana@example.com",
		Subject:  "Late delivery",
		Message:  "My order has not arrived yet, please have a look.",
		Status:   models.MessageStatusNew,
		Priority: models.PriorityMedium,
		Category: models.MessageCategoryOrder,
	}
	require.NoError(t, db.Create(msg).Error)

	headers := map[string]string{"Authorization": "Bearer " + adminToken}

	w := doJSON(r, http.MethodPut, "/api/contact/"+msg.ID.String()+"/status",
		map[string]interface{}{"status": "replied"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/contact/"+msg.ID.String()+"/priority",
		map[string]interface{}{"priority": "urgent"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.ContactMessage
	require.NoError(t, db.First(&reloaded, "id = ?", msg.ID).Error)
	assert.Equal(t, models.MessageStatusReplied, reloaded.Status)
	assert.Equal(t, models.PriorityUrgent, reloaded.Priority)
	require.NotNil(t, reloaded.RepliedAt)
}

func TestOrderCreateRequiresAuth(t *testing.T) {
	r, db := newTestEnv(t)
	product := seedProduct(t, db, "vase", 5)
	_, token := seedUser(t, db, "dana@example.com", models.RoleCustomer)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID.String(), "quantity": 1},
		},
		"shipping_address": map[string]interface{}{
			"first_name": "Dana",
			"last_name":  "Levi",
			"street":     "12 Herzl St",
			"city":       "Tel Aviv",
			"zip_code":   "6100000",
			"phone":      "0521234567",
		},
		"payment_method": "credit_card",
	}

	w := doJSON(r, http.MethodPost, "/api/orders", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/orders", body, map[string]string{
		"Authorization": "Bearer " + token,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.OrderNumber)
}
