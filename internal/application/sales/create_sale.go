package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/entity"
	domaininv "github.com/globaltechnology/inventario-ventas/internal/domain/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

// CreateSaleUseCase confirma una venta: marca unidades como vendidas, descuenta stock a granel
// y persiste cabecera e ítems en una sola transacción. Si una línea falla no se persiste nada.
type CreateSaleUseCase struct {
	txRunner SaleTxRunner
	sources  inventory.StockSources
	notifier inventory.StockChangeNotifier
	log      *logger.Logger
	now      func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso. sources son los orígenes de stock de
// StockUseCase.Sources(); notifier puede ser nil.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	sources inventory.StockSources,
	notifier inventory.StockChangeNotifier,
	log *logger.Logger,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner: txRunner,
		sources:  sources,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// CreateSale valida la estructura de todas las líneas antes de abrir la transacción
// y luego las procesa en el orden recibido.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}

	saleDiscount := decimal.Zero
	if in.Discount != nil {
		saleDiscount = *in.Discount
	}

	now := uc.now()
	saleID := uuid.New().String() // se usa como referencia en los movimientos
	var sale *entity.Sale

	err := uc.txRunner.RunSale(ctx, func(repos repository.TxRepos) error {
		var customerName string
		if in.CustomerID != "" {
			c, err := repos.Customers.GetByID(ctx, in.CustomerID)
			if err != nil {
				return fmt.Errorf("get customer: %w", err)
			}
			if c == nil {
				return domain.ErrCustomerNotFound
			}
			customerName = c.Name
		}

		items := make([]*entity.SaleItem, 0, len(in.Items))
		lines := make([]domaininv.Line, 0, len(in.Items))
		for i, line := range in.Items {
			item, err := uc.sellLine(ctx, repos, saleID, line, now)
			if err != nil {
				return err
			}
			item.LineNo = i + 1
			l := domaininv.Line{UnitPrice: item.UnitPrice, Discount: item.Discount, Quantity: item.Quantity}
			if err := l.Validate(); err != nil {
				return err
			}
			items = append(items, item)
			lines = append(lines, l)
		}

		_, total, err := domaininv.SaleTotal(lines, saleDiscount)
		if err != nil {
			return err
		}

		sale = &entity.Sale{
			ID:           saleID,
			Date:         now,
			CustomerID:   in.CustomerID,
			CustomerName: customerName,
			Discount:     saleDiscount,
			Total:        total,
			Notes:        in.Notes,
			Items:        items,
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := repos.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Interface("payload", in).Msg("error confirmando venta")
		}
		return nil, err
	}

	uc.log.Info().Str("sale_id", sale.ID).Str("total", sale.Total.String()).Int("items", len(sale.Items)).Msg("venta confirmada")
	if uc.notifier != nil {
		if err := uc.notifier.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de stock")
		}
	}
	out := ToSaleResponse(sale)
	return &out, nil
}

// sellLine elige el origen de stock de la línea una sola vez y consume a través de él.
// Una línea por unidad siempre va al origen por unidades; una a granel, al de su variante.
func (uc *CreateSaleUseCase) sellLine(ctx context.Context, repos repository.TxRepos, saleID string, line dto.SaleItemRequest, now time.Time) (*entity.SaleItem, error) {
	src := uc.sources.Units()
	sl := inventory.SaleLine{SaleID: saleID, UnitID: line.UnitID, Date: now}
	if line.UnitID == "" {
		variant, err := repos.Catalog.GetVariant(ctx, line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, domain.ErrVariantNotFound
		}
		src = uc.sources.For(variant)
		sl.VariantID, sl.Quantity = variant.ID, *line.Quantity
	}

	consumed, err := src.Consume(ctx, repos, sl)
	if err != nil {
		return nil, err
	}

	// Precio por defecto: el propio de la unidad si lo tiene, si no el base de la variante.
	price := consumed.Variant.BasePrice
	var unitID string
	if consumed.Unit != nil {
		unitID = consumed.Unit.ID
		price = domaininv.EffectivePrice(consumed.Unit.PriceOverride, consumed.Variant.BasePrice)
	}
	if line.UnitPrice != nil {
		price = *line.UnitPrice
	}
	return &entity.SaleItem{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		VariantID: consumed.Variant.ID,
		UnitID:    unitID,
		Quantity:  consumed.Quantity,
		UnitPrice: price,
		Discount:  discountOf(line),
		ModelName: consumed.Variant.ModelName,
	}, nil
}

// validateRequest chequeos estructurales que no requieren la BD.
func validateRequest(in dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrEmptySale
	}
	if in.Discount != nil {
		if err := domaininv.ValidateAmount(*in.Discount); err != nil {
			return err
		}
	}
	for _, line := range in.Items {
		hasUnit, hasVariant := line.UnitID != "", line.VariantID != ""
		switch {
		case hasUnit && hasVariant:
			return domain.ErrInvalidSaleLine
		case hasUnit:
			if line.Quantity != nil && *line.Quantity != 1 {
				return domain.ErrInvalidSaleLine
			}
		case hasVariant:
			if line.Quantity == nil || *line.Quantity <= 0 {
				return domain.ErrInvalidSaleLine
			}
		default:
			return domain.ErrInvalidSaleLine
		}
		if line.UnitPrice != nil {
			if err := domaininv.ValidateAmount(*line.UnitPrice); err != nil {
				return err
			}
		}
		if line.Discount != nil {
			if err := domaininv.ValidateAmount(*line.Discount); err != nil {
				return err
			}
		}
		if line.UnitPrice != nil && line.Discount != nil && line.Discount.GreaterThan(*line.UnitPrice) {
			return domain.ErrInvalidSaleLine
		}
	}
	return nil
}

func discountOf(line dto.SaleItemRequest) decimal.Decimal {
	if line.Discount != nil {
		return *line.Discount
	}
	return decimal.Zero
}

// isBusinessError errores esperables (validación, inexistencia, conflicto) que no se loguean como fallas.
func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrDuplicate)
}

// ToSaleResponse mapea la entidad a la respuesta HTTP.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:        it.ID,
			LineNo:    it.LineNo,
			VariantID: it.VariantID,
			UnitID:    it.UnitID,
			ModelName: it.ModelName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Subtotal:  domaininv.Line{UnitPrice: it.UnitPrice, Discount: it.Discount, Quantity: it.Quantity}.Net(),
		})
	}
	return dto.SaleResponse{
		ID:           s.ID,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		Discount:     s.Discount,
		Total:        s.Total,
		Notes:        s.Notes,
		Items:        items,
	}
}
