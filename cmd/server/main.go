package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nagpalarpit/POS-WaiterApp/config"
	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
	"github.com/nagpalarpit/POS-WaiterApp/internal/database"
	"github.com/nagpalarpit/POS-WaiterApp/internal/gateway/handlers"
	"github.com/nagpalarpit/POS-WaiterApp/internal/gateway/middleware"
	"github.com/nagpalarpit/POS-WaiterApp/internal/menu"
	"github.com/nagpalarpit/POS-WaiterApp/internal/order"
)

func main() {
	cfg := config.LoadConfig()

	redisClient := config.NewRedisClient(cfg.Redis)

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var settleClient order.SettleClient
	if cfg.Order.SettleURL != "" {
		settleClient = order.NewHTTPSettleClient(cfg.Order.SettleURL)
	} else {
		log.Println("ORDER_SETTLE_URL not set, orders will settle locally")
	}

	cartStore := cart.NewRedisStore(redisClient)
	menuService := menu.NewService(db, redisClient)
	orderService := order.NewService(db, settleClient)

	cartHandler := handlers.NewCartHTTPHandler(cartStore)
	menuHandler := handlers.NewMenuHTTPHandler(menuService)
	orderHandler := handlers.NewOrderHTTPHandler(orderService, cartStore)

	jwtSecret := []byte(cfg.Auth.JWTSecret)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		menuGroup := protected.Group("/menu")
		{
			menuGroup.GET("/categories", menuHandler.ListCategories)
			menuGroup.POST("/import", menuHandler.ImportMenu)
		}

		cartGroup := protected.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.DELETE("", cartHandler.ClearCart)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PUT("/items/:cartId/quantity", cartHandler.SetQuantity)
			cartGroup.PUT("/items/:cartId/note", cartHandler.SetItemNote)
			cartGroup.DELETE("/items/:cartId", cartHandler.RemoveItem)
			cartGroup.PUT("/note", cartHandler.SetOrderNote)
			cartGroup.PUT("/discount", cartHandler.SetDiscount)
			cartGroup.DELETE("/discount", cartHandler.RemoveDiscount)
		}

		orderGroup := protected.Group("/orders")
		{
			orderGroup.POST("", orderHandler.CreateOrder)
			orderGroup.GET("", orderHandler.ListOrders)
			orderGroup.GET("/:id", orderHandler.GetOrder)
			orderGroup.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
			orderGroup.POST("/:id/settle", orderHandler.SettleOrder)
			orderGroup.DELETE("/:id", orderHandler.DeleteOrder)
			orderGroup.GET("/table/:tableNo", orderHandler.GetOrderByTable)
			orderGroup.GET("/delivery-type/:deliveryType", orderHandler.ListOrdersByDeliveryType)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
