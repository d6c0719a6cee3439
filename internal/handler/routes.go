package handler

import (
	"context"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Auth       service.AuthService
	Authorizer service.Authorizer
	Ledger     service.LedgerService
	Queries    service.QueryService
	Products   service.ProductService
	Users      service.UserService
	Hub        *ws.Hub
	// Ping reports storage health for /health-check; nil means always healthy
	Ping func(ctx context.Context) error
}

// RegisterRoutes mounts the /api/v1 surface and the /ws endpoint on app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	authHandler := NewAuthHandler(d.Auth)
	productHandler := NewProductHandler(d.Products, d.Queries)
	txHandler := NewTransactionHandler(d.Ledger, d.Queries)
	dashHandler := NewDashboardHandler(d.Queries, d.Authorizer)
	userHandler := NewUserHandler(d.Users)
	roleHandler := NewRoleHandler(d.Users)

	api := app.Group("/api/v1")
	api.Get("/health-check", healthCheck(d.Ping))

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Auth))
	can := func(capability string) fiber.Handler {
		return middleware.RequireCapability(d.Authorizer, capability)
	}

	protected.Get("/dashboard", dashHandler.GetDashboard)

	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", can(model.CapManageProducts), productHandler.CreateProduct)
	protected.Put("/products/:id", can(model.CapManageProducts), productHandler.UpdateProduct)
	protected.Patch("/products/:id/status", can(model.CapManageProducts), productHandler.ChangeStatus)
	protected.Delete("/products/:id", can(model.CapManageProducts), productHandler.DeleteProduct)

	protected.Get("/stock-transactions", txHandler.GetTransactions)
	protected.Get("/stock-transactions/:id", txHandler.GetTransaction)
	protected.Post("/stock-transactions", can(model.CapManageStock), txHandler.CreateTransaction)

	protected.Get("/users", can(model.CapManageUsers), userHandler.GetUsers)
	protected.Post("/users", can(model.CapManageUsers), userHandler.CreateUser)

	protected.Get("/roles", roleHandler.GetRoles)

	if d.Hub != nil {
		registerWebSocket(app, d.Hub)
	}
}

func healthCheck(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	}
}

func registerWebSocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
		defer hub.Unregister(c)

		// Clients only listen; reading detects disconnects.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
