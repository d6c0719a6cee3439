package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	products service.ProductService
	queries  service.QueryService
}

func NewProductHandler(products service.ProductService, queries service.QueryService) *ProductHandler {
	return &ProductHandler{products: products, queries: queries}
}

// GetProducts lists products
// GET /api/v1/products?search=&category_id=&status=&low_stock=&page=&page_size=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	categoryID, err := parseOptionalUint(c.Query("category_id"))
	if err != nil {
		return badRequest(c, "Invalid category_id")
	}

	filter := service.ProductFilter{
		Search:       c.Query("search"),
		CategoryID:   categoryID,
		Status:       model.ProductStatus(c.Query("status")),
		LowStockOnly: c.QueryBool("low_stock", false),
	}
	page, err := h.queries.ListProducts(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("page_size", service.DefaultPageSize))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.products.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.products.CreateProduct(c.UserContext(), req, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.products.UpdateProduct(c.UserContext(), id, req, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// PATCH /api/v1/products/:id/status
func (h *ProductHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req struct {
		Status model.ProductStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.products.ChangeStatus(c.UserContext(), id, req.Status, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product status updated", "data": product})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.products.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
