package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/globaltechnology/inventario-ventas/internal/application/analytics"
)

// DashboardHandler expone el tablero de productos.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// ProductStats godoc
// @Summary      Tablero de productos
// @Description  Modelos sin stock, con stock bajo y los 5 más vendidos.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductStatsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/stats [get]
func (h *DashboardHandler) ProductStats(c *fiber.Ctx) error {
	out, err := h.uc.ProductStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
