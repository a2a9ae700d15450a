package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

// UnitUseCase administra el libro de unidades serializadas (alta, edición, consulta y baja).
// La transición IN_STOCK -> SOLD no pasa por aquí: solo la confirma una venta.
type UnitUseCase struct {
	txRunner TxRunner
	catalog  repository.CatalogRepository
	units    repository.UnitRepository
	notifier StockChangeNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewUnitUseCase construye el caso de uso. notifier puede ser nil.
func NewUnitUseCase(
	txRunner TxRunner,
	catalog repository.CatalogRepository,
	units repository.UnitRepository,
	notifier StockChangeNotifier,
	log *logger.Logger,
) *UnitUseCase {
	return &UnitUseCase{
		txRunner: txRunner,
		catalog:  catalog,
		units:    units,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Create da de alta una unidad IN_STOCK para una variante que se controla por IMEI.
func (uc *UnitUseCase) Create(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if in.VariantID == "" {
		return nil, domain.ErrInvalidInput
	}
	variant, err := uc.catalog.GetVariant(ctx, in.VariantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if variant == nil {
		return nil, domain.ErrVariantNotFound
	}
	if !variant.TracksUnits {
		return nil, domain.ErrUntrackedVariant
	}

	imei := strings.TrimSpace(in.IMEI)
	if imei == "" {
		return nil, domain.ErrIMEIRequired
	}
	cond := entity.ConditionNew
	if in.Condition != "" {
		cond = entity.Condition(in.Condition)
	}
	if !cond.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := inventory.ValidateBattery(cond, in.BatteryPct); err != nil {
		return nil, err
	}
	if in.PriceOverride != nil {
		if err := inventory.ValidateAmount(*in.PriceOverride); err != nil {
			return nil, err
		}
	}

	existing, err := uc.units.GetByIMEI(ctx, imei)
	if err != nil {
		return nil, fmt.Errorf("get unit by imei: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIMEI
	}

	now := uc.now()
	unit := &entity.Unit{
		ID:            uuid.New().String(),
		VariantID:     variant.ID,
		IMEI:          imei,
		BatteryPct:    in.BatteryPct,
		PriceOverride: in.PriceOverride,
		StockState:    entity.StockStateInStock,
		Condition:     cond,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// El índice único de IMEI resuelve la carrera entre dos altas simultáneas.
	if err := uc.units.Create(ctx, unit); err != nil {
		return nil, err
	}
	notifyStockChange(ctx, uc.notifier, uc.log)
	out := ToUnitResponse(unit)
	return &out, nil
}

// Update aplica una edición parcial. Las reglas se validan contra el estado resultante.
func (uc *UnitUseCase) Update(ctx context.Context, id string, in dto.UpdateUnitRequest) (*dto.UnitResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ClearPriceOverride && in.PriceOverride != nil {
		return nil, domain.ErrInvalidInput
	}
	if in.PriceOverride != nil {
		if err := inventory.ValidateAmount(*in.PriceOverride); err != nil {
			return nil, err
		}
	}
	var updated *entity.Unit
	stateChanged := false
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		unit, err := repos.Units.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrUnitNotFound
		}

		next := *unit
		if in.BatteryPct != nil {
			b := *in.BatteryPct
			next.BatteryPct = &b
		}
		if in.PriceOverride != nil {
			p := *in.PriceOverride
			next.PriceOverride = &p
		}
		if in.ClearPriceOverride {
			next.PriceOverride = nil
		}
		if in.Condition != nil {
			next.Condition = entity.Condition(*in.Condition)
			if !next.Condition.Valid() {
				return domain.ErrInvalidInput
			}
		}
		if in.Notes != nil {
			next.Notes = *in.Notes
		}
		if in.StockState != nil {
			next.StockState = entity.StockState(*in.StockState)
			if err := inventory.ValidateTransition(unit.StockState, next.StockState); err != nil {
				return err
			}
			stateChanged = next.StockState != unit.StockState
		}
		if err := inventory.ValidateBattery(next.Condition, next.BatteryPct); err != nil {
			return err
		}
		next.UpdatedAt = uc.now()
		if err := repos.Units.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if stateChanged {
		notifyStockChange(ctx, uc.notifier, uc.log)
	}
	out := ToUnitResponse(updated)
	return &out, nil
}

// Get obtiene una unidad por ID.
func (uc *UnitUseCase) Get(ctx context.Context, id string) (*dto.UnitResponse, error) {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}
	if unit == nil {
		return nil, domain.ErrUnitNotFound
	}
	out := ToUnitResponse(unit)
	return &out, nil
}

// ListByVariant lista las unidades de una variante filtradas por estado. Sin filtro = solo IN_STOCK.
func (uc *UnitUseCase) ListByVariant(ctx context.Context, variantID string, states []entity.StockState) ([]dto.UnitResponse, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, s := range states {
		if !s.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}
	variant, err := uc.catalog.GetVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if variant == nil {
		return nil, domain.ErrVariantNotFound
	}
	if len(states) == 0 {
		states = []entity.StockState{entity.StockStateInStock}
	}
	list, err := uc.units.ListByVariant(ctx, variantID, states)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUnitResponse(u))
	}
	return out, nil
}

// Delete borra una unidad que no tenga movimientos ni ventas asociadas.
// La condición se evalúa en la misma sentencia de borrado.
func (uc *UnitUseCase) Delete(ctx context.Context, id string) error {
	unit, err := uc.units.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get unit: %w", err)
	}
	if unit == nil {
		return domain.ErrUnitNotFound
	}
	deleted, err := uc.units.DeleteIfUnreferenced(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// Puede haber desaparecido entre la lectura y el borrado.
		again, gerr := uc.units.GetByID(ctx, id)
		if gerr == nil && again == nil {
			return domain.ErrUnitNotFound
		}
		return domain.ErrUnitReferenced
	}
	if unit.StockState == entity.StockStateInStock {
		notifyStockChange(ctx, uc.notifier, uc.log)
	}
	return nil
}

// ParseStates convierte "IN_STOCK,RESERVED" en estados. Vacío = sin filtro.
func ParseStates(raw string) ([]entity.StockState, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []entity.StockState
	for _, p := range strings.Split(raw, ",") {
		s := entity.StockState(strings.ToUpper(strings.TrimSpace(p)))
		if !s.Valid() {
			return nil, errors.Join(domain.ErrInvalidInput, fmt.Errorf("estado desconocido %q", p))
		}
		out = append(out, s)
	}
	return out, nil
}

// ToUnitResponse mapea la entidad a la respuesta HTTP.
func ToUnitResponse(u *entity.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:            u.ID,
		VariantID:     u.VariantID,
		IMEI:          u.IMEI,
		BatteryPct:    u.BatteryPct,
		PriceOverride: u.PriceOverride,
		StockState:    string(u.StockState),
		Condition:     string(u.Condition),
		Notes:         u.Notes,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
