package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("mongo disconnect:", err)
		}
	}()

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	secret := config.AppEnv.JWTSecret
	ttl := config.AppEnv.AccessTokenTTL

	r := gin.Default()

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register(db, secret, ttl))
		auth.POST("/login", handlers.Login(db, secret, ttl))
		auth.GET("/me", middleware.RequireAuth(db, secret), handlers.GetMe(db))
		auth.POST("/logout", handlers.Logout())
	}

	products := r.Group("/api/products")
	{
		products.GET("/", handlers.GetProducts(db))
		products.GET("/categories", handlers.GetCategories(db))
		products.GET("/:id", handlers.GetProduct(db))

		seller := products.Group("")
		seller.Use(middleware.RequireAuth(db, secret), middleware.RequireRoles(models.RoleSeller, models.RoleAdmin))
		{
			seller.POST("/", handlers.CreateProduct(db))
			seller.PUT("/:id", handlers.UpdateProduct(db))
			seller.DELETE("/:id", handlers.DeleteProduct(db))
		}
	}

	cart := r.Group("/api/cart")
	cart.Use(middleware.RequireAuth(db, secret))
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("/add", handlers.AddToCart(db))
		cart.PUT("/items/:productId", handlers.UpdateCartItem(db))
		cart.DELETE("/items/:productId", handlers.RemoveCartItem(db))
		cart.DELETE("/clear", handlers.ClearCart(db))
	}

	orders := r.Group("/api/orders")
	orders.Use(middleware.RequireAuth(db, secret))
	{
		orders.POST("", handlers.CreateOrder(db))
		orders.GET("", handlers.GetOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
		orders.PUT("/:id/status", middleware.RequireRoles(models.RoleAdmin), handlers.UpdateOrderStatus(db))
		orders.PUT("/:id/cancel", handlers.CancelOrder(db))
	}

	users := r.Group("/api/users")
	users.Use(middleware.RequireAuth(db, secret))
	{
		users.PUT("/profile", handlers.UpdateProfile(db))
		users.GET("/addresses", handlers.GetAddresses(db))
		users.POST("/addresses", handlers.CreateAddress(db))
		users.PUT("/addresses/:id", handlers.UpdateAddress(db))
		users.DELETE("/addresses/:id", handlers.DeleteAddress(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
