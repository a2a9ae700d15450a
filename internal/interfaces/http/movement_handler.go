package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
)

// MovementHandler maneja el libro de movimientos (protegido).
type MovementHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento de inventario (a granel)
// @Description  IN suma; OUT y SALE restan. La cantidad puede venir con signo o como magnitud.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "variant_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Kardex de una variante
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        variant_id  query  string  true   "ID de la variante"
// @Param        from        query  string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit       query  int     false  "máximo 100"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	if c.Query("variant_id") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id requerido"})
	}
	variantID, err := checkID(c.Query("variant_id"))
	if err != nil {
		return respondError(c, err)
	}
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		return respondError(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListByVariant(c.UserContext(), variantID, from, to, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseDate acepta RFC3339 o YYYY-MM-DD. Con fecha sola y endOfDay, el límite es el último instante del día.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidInput, errors.New("fecha inválida: "+raw))
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
