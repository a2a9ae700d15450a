package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	"github.com/globaltechnology/inventario-ventas/internal/domain/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

// RegisterMovementUseCase registra movimientos del libro de stock a granel de forma transaccional,
// con bloqueo de la fila de la variante (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	catalog   repository.CatalogRepository
	movements repository.MovementRepository
	notifier  StockChangeNotifier
	log       *logger.Logger
	now       func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. notifier puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	catalog repository.CatalogRepository,
	movements repository.MovementRepository,
	notifier StockChangeNotifier,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		catalog:   catalog,
		movements: movements,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity con signo o como magnitud; el tipo define el signo almacenado.
type MovementInput struct {
	VariantID string
	Kind      entity.MovementKind
	Quantity  int64
	RefType   string
	RefID     string
	Notes     string
}

// RecordMovement valida la entrada, abre una transacción y agrega el movimiento si el stock
// resultante no queda negativo. Si no, devuelve domain.ErrInsufficientStock y el libro no cambia.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.VariantID == "" || !in.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := inventory.NormalizeQuantity(in.Kind, in.Quantity); err != nil {
		return nil, err
	}
	variant, err := uc.catalog.GetVariant(ctx, in.VariantID)
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if variant == nil {
		return nil, domain.ErrVariantNotFound
	}
	if variant.TracksUnits {
		return nil, domain.ErrTrackedVariant
	}

	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		m, err := uc.RecordInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("variant_id", mov.VariantID).
		Str("type", string(mov.Kind)).
		Int64("quantity", mov.Quantity).
		Str("ref_type", mov.RefType).
		Str("ref_id", mov.RefID).
		Msg("movimiento registrado")
	notifyStockChange(ctx, uc.notifier, uc.log)
	return mov, nil
}

// RecordInTx aplica el movimiento usando los repositorios de la transacción del caller
// (p. ej. la confirmación de una venta). Bloquea la variante, lee la suma corriente
// después del bloqueo y rechaza si sum + delta < 0.
func (uc *RegisterMovementUseCase) RecordInTx(ctx context.Context, repos repository.TxRepos, in MovementInput) (*entity.Movement, error) {
	mov, _, err := appendToLedger(ctx, repos, in, uc.now())
	return mov, err
}

// RecordFromRequest adapta el request HTTP al caso de uso.
func (uc *RegisterMovementUseCase) RecordFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.RecordMovement(ctx, MovementInput{
		VariantID: in.VariantID,
		Kind:      entity.MovementKind(in.Type),
		Quantity:  in.Quantity,
		RefType:   in.RefType,
		RefID:     in.RefID,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// ListByVariant kardex de una variante, más recientes primero.
func (uc *RegisterMovementUseCase) ListByVariant(ctx context.Context, variantID string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.Normalize()
	list, err := uc.movements.ListByVariant(ctx, variantID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToMovementResponse mapea la entidad a la respuesta HTTP.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		Date:      m.Date,
		Type:      string(m.Kind),
		VariantID: m.VariantID,
		UnitID:    m.UnitID,
		Quantity:  m.Quantity,
		RefType:   m.RefType,
		RefID:     m.RefID,
		Notes:     m.Notes,
	}
}

func notifyStockChange(ctx context.Context, n StockChangeNotifier, log *logger.Logger) {
	if n == nil {
		return
	}
	if err := n.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché de stock")
	}
}
