package main

import (
	"log"
	"strings"

	"corap-backend/internal/audit"
	"corap-backend/internal/auth"
	"corap-backend/internal/config"
	"corap-backend/internal/database"
	"corap-backend/internal/models"
	"corap-backend/internal/product"
	"corap-backend/internal/production"
	"corap-backend/internal/sample"
	"corap-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Kullanıcı yönetimi (sadece admin)
	adminOnly := auth.RequireRole(models.RoleAdmin)
	protected.Post("/users", adminOnly, user.CreateUserHandler(db))
	protected.Get("/users", adminOnly, user.ListUsersHandler(db))
	protected.Get("/users/:id", adminOnly, user.GetUserHandler(db))
	protected.Put("/users/:id", adminOnly, user.UpdateUserHandler(db))
	protected.Delete("/users/:id", adminOnly, user.DeleteUserHandler(db))

	// Üretim takibi
	// Not: stats ve export route'ları /:id'den ÖNCE kayıtlı olmalı
	protected.Get("/productions/stats", production.StatsHandler(db))
	protected.Get("/productions/export", production.ExportProductionsHandler(db))
	protected.Get("/productions", production.ListProductionsHandler(db))
	protected.Get("/productions/:id", production.GetProductionHandler(db))
	protected.Post("/productions", production.CreateProductionHandler(db))
	protected.Patch("/productions/:id", production.UpdateProductionHandler(db, cfg.StatusPolicy))
	protected.Delete("/productions/:id", production.DeleteProductionHandler(db))

	// QR kod sorgusu
	protected.Get("/qr-code/check", production.CheckQRCodeHandler(db))

	// Ürün kimlikleri
	protected.Post("/products", product.CreateProductIdentityHandler(db))
	protected.Get("/products", product.ListProductIdentitiesHandler(db))
	protected.Get("/products/:id", product.GetProductIdentityHandler(db))
	protected.Put("/products/:id", product.UpdateProductIdentityHandler(db))
	protected.Delete("/products/:id", adminOnly, product.DeleteProductIdentityHandler(db))

	// Numuneler
	protected.Post("/samples", sample.CreateSampleHandler(db))
	protected.Get("/samples", sample.ListSamplesHandler(db))
	protected.Get("/samples/:id", sample.GetSampleHandler(db))
	protected.Put("/samples/:id", sample.UpdateSampleHandler(db))
	protected.Delete("/samples/:id", adminOnly, sample.DeleteSampleHandler(db))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
