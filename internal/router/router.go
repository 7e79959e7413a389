// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/config"
	"github.com/hadarhome/storefront/internal/handlers"
	"github.com/hadarhome/storefront/internal/middleware"
	"github.com/hadarhome/storefront/internal/services"
)

func Setup(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Services
	productService := services.NewProductService(db)
	cartService := services.NewCartService(db, cfg.Cart.TTLDays)
	orderService := services.NewOrderService(db, cartService)
	contactService := services.NewContactService(db)
	authService := services.NewAuthService(db, cfg.JWT.SecretKey, cfg.JWT.TokenTTL)
	storageService, err := services.NewStorageService(cfg.AWS)
	if err != nil {
		return nil, err
	}

	// Handlers
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	contactHandler := handlers.NewContactHandler(contactService)
	authHandler := handlers.NewAuthHandler(authService, cartService)
	uploadHandler := handlers.NewUploadHandler(storageService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	generalLimiter := middleware.NewRateLimiter(20, 40)
	authLimiter := middleware.NewRateLimiter(1, 5)
	contactLimiter := middleware.NewRateLimiter(0.2, 3)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(generalLimiter.Middleware())

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
		auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authLimiter.Middleware(), authHandler.ForgotPassword)
		auth.GET("/me", middleware.AuthRequired(cfg.JWT.SecretKey), authHandler.Me)
		auth.GET("/verify", middleware.AuthRequired(cfg.JWT.SecretKey), authHandler.VerifyToken)
		auth.PUT("/profile", middleware.AuthRequired(cfg.JWT.SecretKey), authHandler.UpdateProfile)
		auth.PUT("/password", middleware.AuthRequired(cfg.JWT.SecretKey), authHandler.ChangePassword)
	}

	// Products
	products := api.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/featured", productHandler.GetFeatured)
		products.GET("/categories", productHandler.Categories)
		products.GET("/:id", productHandler.Get)

		adminProducts := products.Group("")
		adminProducts.Use(middleware.AuthRequired(cfg.JWT.SecretKey), middleware.AdminRequired())
		{
			adminProducts.POST("", productHandler.Create)
			adminProducts.PUT("/:id", productHandler.Update)
			adminProducts.DELETE("/:id", productHandler.Delete)
			adminProducts.POST("/:id/stock", productHandler.AdjustStock)
		}
	}

	// Cart works for guests and authenticated users alike.
	cart := api.Group("/cart")
	cart.Use(middleware.OptionalAuth(cfg.JWT.SecretKey))
	{
		cart.GET("", cartHandler.Get)
		cart.GET("/count", cartHandler.Count)
		cart.POST("/add", cartHandler.AddItem)
		cart.PUT("/update", cartHandler.UpdateItem)
		cart.DELETE("/remove/:productId", cartHandler.RemoveItem)
		cart.DELETE("/clear", cartHandler.Clear)
		cart.POST("/merge", middleware.AuthRequired(cfg.JWT.SecretKey), cartHandler.Merge)
	}

	// Orders
	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(cfg.JWT.SecretKey))
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.Get)
		orders.POST("/:id/cancel", orderHandler.Cancel)

		adminOrders := orders.Group("")
		adminOrders.Use(middleware.AdminRequired())
		{
			adminOrders.GET("/stats/summary", orderHandler.Stats)
			adminOrders.GET("/user/:userId", orderHandler.ListByUser)
			adminOrders.PUT("/:id/status", orderHandler.UpdateStatus)
		}
	}

	// Contact
	contact := api.Group("/contact")
	{
		contact.POST("", contactLimiter.Middleware(), contactHandler.Create)

		adminContact := contact.Group("")
		adminContact.Use(middleware.AuthRequired(cfg.JWT.SecretKey), middleware.AdminRequired())
		{
			adminContact.GET("", contactHandler.List)
			adminContact.GET("/stats", contactHandler.Stats)
			adminContact.GET("/:id", contactHandler.Get)
			adminContact.PATCH("/:id", contactHandler.Update)
			adminContact.PUT("/:id/status", contactHandler.UpdateStatus)
			adminContact.PUT("/:id/priority", contactHandler.UpdatePriority)
			adminContact.DELETE("/:id", contactHandler.Delete)
		}
	}

	// Uploads
	upload := api.Group("/upload")
	upload.Use(middleware.AuthRequired(cfg.JWT.SecretKey), middleware.AdminRequired())
	{
		upload.POST("/image", uploadHandler.UploadImage)
		upload.POST("/images", uploadHandler.UploadImages)
		upload.GET("/images", uploadHandler.ListImages)
		upload.DELETE("/image/*publicId", uploadHandler.DeleteImage)
	}

	return r, nil
}
