package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
)

// StockHandler consultas de stock, listado de inventario y tabla de productos (protegido).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Variant godoc
// @Summary      Stock de una variante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la variante"
// @Success      200  {object}  dto.VariantStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/variants/{id} [get]
func (h *StockHandler) Variant(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.StockForVariant(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Variants godoc
// @Summary      Stock de varias variantes
// @Description  Una consulta por fuente de stock, no una por variante. Las variantes inexistentes se omiten.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        ids  query  string  true  "IDs separados por coma"
// @Success      200  {object}  map[string]dto.VariantStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/variants [get]
func (h *StockHandler) Variants(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		id, err := checkID(id)
		if err != nil {
			return respondError(c, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids requerido"})
	}
	out, err := h.uc.StockForVariants(c.UserContext(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Model godoc
// @Summary      Stock agregado de un modelo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del modelo"
// @Success      200  {object}  dto.ModelStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/models/{id} [get]
func (h *StockHandler) Model(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.StockForModel(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Listado de inventario
// @Description  Una fila por unidad en stock (modelos por IMEI) o por variante con stock (a granel).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "filtrar por categoría"
// @Param        brand_id     query  string  false  "filtrar por marca"
// @Success      200  {array}   dto.InventoryRowDTO
// @Router       /api/inventory [get]
func (h *StockHandler) Inventory(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.uc.ListInventory(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// ProductTable godoc
// @Summary      Tabla de productos con stock por variante
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  string  false  "filtrar por categoría"
// @Param        brand_id     query  string  false  "filtrar por marca"
// @Success      200  {array}   dto.ModelTableDTO
// @Router       /api/products/table [get]
func (h *StockHandler) ProductTable(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	table, err := h.uc.ProductTable(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(table)
}
