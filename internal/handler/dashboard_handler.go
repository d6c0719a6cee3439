package handler

import (
	"sort"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	queries service.QueryService
	authz   service.Authorizer
}

func NewDashboardHandler(queries service.QueryService, authz service.Authorizer) *DashboardHandler {
	return &DashboardHandler{queries: queries, authz: authz}
}

// GetDashboard returns the summary every user sees. Users with the report
// capability also get monthly stock movement, and user administrators get
// the user count and latest purchase orders.
// GET /api/v1/dashboard?months=
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	caps, err := h.authz.Capabilities(ctx, middleware.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	summary, err := h.queries.ComputeDashboardSummary(ctx)
	if err != nil {
		return writeError(c, err)
	}

	capabilities := make([]string, 0, len(caps))
	for code := range caps {
		capabilities = append(capabilities, code)
	}
	sort.Strings(capabilities)

	body := fiber.Map{
		"stats":               summary.Stats,
		"recent_transactions": summary.RecentTransactions,
		"low_stock_products":  summary.LowStockProducts,
		"capabilities":        capabilities,
	}

	if caps[model.CapViewReports] {
		movement, err := h.queries.StockMovement(ctx, c.QueryInt("months", 0))
		if err != nil {
			return writeError(c, err)
		}
		body["stock_movement"] = movement
	}

	if caps[model.CapManageUsers] {
		admin, err := h.queries.ComputeAdminSummary(ctx)
		if err != nil {
			return writeError(c, err)
		}
		body["total_users"] = admin.TotalUsers
		body["recent_purchase_orders"] = admin.RecentPurchaseOrders
	}

	return c.JSON(body)
}
