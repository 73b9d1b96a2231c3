package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-farmacia-pos/internal/handler"
	"go-farmacia-pos/internal/middleware"
	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/money"
	"go-farmacia-pos/internal/pos"
	"go-farmacia-pos/internal/repository"
	"go-farmacia-pos/internal/repository/memory"
	"go-farmacia-pos/internal/service"
	"go-farmacia-pos/internal/ws"
	"go-farmacia-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	taxRate := money.DefaultTaxRate
	if v := os.Getenv("TAX_RATE"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed >= 1 {
			log.Fatalf("invalid TAX_RATE %q", v)
		}
		taxRate = parsed
	}

	// 2. Select the persistence backend. The memory store carries the
	// default catalog for running without a database.
	var (
		productRepo  repository.ProductRepository
		customerRepo repository.CustomerRepository
		saleRepo     repository.SaleRepository
		movementRepo repository.MovementRepository
		userRepo     repository.UserRepository
	)
	switch driver := os.Getenv("STORE_DRIVER"); driver {
	case "memory":
		store := memory.NewSeeded()
		productRepo = store.Products()
		customerRepo = store.Customers()
		saleRepo = store.Sales()
		movementRepo = store.Movements()
		userRepo = store.Users()
		log.Println("Using in-memory store with seeded catalog")
	case "", "postgres":
		db := database.ConnectDB()
		db.AutoMigrate(
			&model.Product{},
			&model.Customer{},
			&model.Sale{},
			&model.SaleItem{},
			&model.SaleSequence{},
			&model.InventoryMovement{},
			&model.User{},
		)
		productRepo = repository.NewProductRepo(db)
		customerRepo = repository.NewCustomerRepo(db)
		saleRepo = repository.NewSaleRepo(db)
		movementRepo = repository.NewMovementRepo(db)
		userRepo = repository.NewUserRepo(db)
	default:
		log.Fatalf("unknown STORE_DRIVER %q (use memory or postgres)", driver)
	}

	seedAdmin(userRepo)

	// 3. WebSocket Hub for live dashboard updates
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	carts := pos.NewCarts(taxRate)
	catalogService := service.NewCatalogService(productRepo, movementRepo, wsHub)
	checkoutService := service.NewCheckoutService(productRepo, customerRepo, saleRepo, wsHub)
	reportService := service.NewReportService(productRepo, customerRepo, saleRepo)
	authService := service.NewAuthService(userRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	posHandler := handler.NewPOSHandler(carts, catalogService, checkoutService, productRepo, taxRate)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Farmacia Salud POS v1.0",
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Auth (no authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard & reports
	protected.Get("/dashboard/stats", reportHandler.GetDashboardStats)
	protected.Get("/reports/today", reportHandler.GetTodaySales)
	protected.Get("/reports/top-products", reportHandler.GetTopProducts)
	protected.Get("/reports/low-stock", reportHandler.GetLowStock)

	// Catalog & inventory
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Get("/products/lookup", catalogHandler.Lookup)
	protected.Post("/products", catalogHandler.CreateProduct)
	protected.Put("/products/:id", catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", catalogHandler.DeactivateProduct)
	protected.Post("/products/:id/restock", catalogHandler.Restock)
	protected.Get("/movements", catalogHandler.GetMovements)

	// POS checkout flow, one cart per terminal session
	protected.Get("/pos/:session", posHandler.GetCart)
	protected.Delete("/pos/:session", posHandler.ClearCart)
	protected.Post("/pos/:session/lines", posHandler.AddLine)
	protected.Put("/pos/:session/lines/:productId", posHandler.SetQuantity)
	protected.Post("/pos/:session/checkout", posHandler.Checkout)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default operator account if it does not exist.
func seedAdmin(userRepo repository.UserRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@farmaciasalud.pe"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("WARNING: using default admin password, set ADMIN_PASSWORD to override")
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrador",
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", email)
}
