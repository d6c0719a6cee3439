package handler

import (
	"strconv"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	ledger  service.LedgerService
	queries service.QueryService
}

func NewTransactionHandler(ledger service.LedgerService, queries service.QueryService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, queries: queries}
}

// CreateTransaction posts a stock movement for the authenticated user
// POST /api/v1/stock-transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.ApplyTransactionInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.ActingUserID = middleware.UserID(c)

	tx, err := h.ledger.ApplyTransaction(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Transaction recorded", "data": tx})
}

// GetTransactions lists the ledger, newest first
// GET /api/v1/stock-transactions?search=&type=&start_date=&end_date=&page=&page_size=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return badRequest(c, "Invalid start_date, use YYYY-MM-DD")
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return badRequest(c, "Invalid end_date, use YYYY-MM-DD")
	}

	filter := service.TransactionFilter{
		Search:    c.Query("search"),
		Type:      model.TransactionType(c.Query("type")),
		StartDate: start,
		EndDate:   end,
	}
	page, err := h.queries.ListTransactions(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("page_size", service.DefaultPageSize))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// GET /api/v1/stock-transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid transaction ID")
	}
	tx, err := h.queries.GetTransaction(c.UserContext(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tx)
}
