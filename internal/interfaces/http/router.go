package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wic-assist-api/internal/application/auth"
	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/application/catalog"
	"github.com/jhoicas/wic-assist-api/internal/application/receipt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	BasketUC  *basket.UseCase
	CatalogUC *catalog.UseCase
	ReceiptUC *receipt.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.BasketUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/logout", authHandler.Logout)

	// Catálogo APL (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.BasketUC)
	catalogGroup := protected.Group("/catalog")
	catalogGroup.Get("/substitutes", catalogHandler.Substitutes)
	catalogGroup.Get("/healthier", catalogHandler.Healthier)
	catalogGroup.Get("/:upc/check", catalogHandler.Check)
	catalogGroup.Get("/:upc", catalogHandler.GetByUPC)

	// Canasta y saldos (protegido)
	basketHandler := NewBasketHandler(deps.BasketUC, deps.ReceiptUC)
	basketGroup := protected.Group("/basket")
	basketGroup.Get("/", basketHandler.State)
	basketGroup.Post("/items", basketHandler.AddItem)
	basketGroup.Post("/items/increment", basketHandler.Increment)
	basketGroup.Post("/items/decrement", basketHandler.Decrement)
	basketGroup.Post("/checkout", basketHandler.Checkout)
	basketGroup.Delete("/", basketHandler.Clear)
	basketGroup.Get("/receipt", basketHandler.Receipt)

	protected.Get("/balances", basketHandler.Balances)
}
