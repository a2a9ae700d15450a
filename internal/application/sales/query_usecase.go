package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/globaltechnology/inventario-ventas/internal/application/dto"
	"github.com/globaltechnology/inventario-ventas/internal/domain"
	"github.com/globaltechnology/inventario-ventas/internal/domain/repository"
)

// Rangos aceptados por SalesStats.
const (
	RangeToday     = "hoy"
	RangeYesterday = "ayer"
	RangeWeek      = "semana" // lunes de la semana actual hasta hoy
	RangeMonth     = "mes"    // últimos 30 días hasta hoy
)

// QueryUseCase lecturas de ventas: listado, detalle, estadísticas y comprobante.
type QueryUseCase struct {
	sales    repository.SaleRepository
	receipts ReceiptGenerator
	location *time.Location
	now      func() time.Time
}

// NewQueryUseCase construye el caso de uso. location define los límites de día para las estadísticas.
func NewQueryUseCase(sales repository.SaleRepository, receipts ReceiptGenerator, location *time.Location) *QueryUseCase {
	if location == nil {
		location = time.UTC
	}
	return &QueryUseCase{sales: sales, receipts: receipts, location: location, now: time.Now}
}

// ListSales ventas más recientes primero con sus ítems.
func (uc *QueryUseCase) ListSales(ctx context.Context, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.Normalize()
	list, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSaleResponse(s))
	}
	return out, nil
}

// GetSale detalle de una venta.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s == nil {
		return nil, domain.ErrSaleNotFound
	}
	out := ToSaleResponse(s)
	return &out, nil
}

// SalesStats unidades vendidas en el rango, separando celulares Apple del resto.
func (uc *QueryUseCase) SalesStats(ctx context.Context, rangeKey string) (*dto.SalesStatsResponse, error) {
	from, to, err := RangeBounds(rangeKey, uc.now(), uc.location)
	if err != nil {
		return nil, err
	}
	lines, err := uc.sales.SoldLinesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.SalesStatsResponse{Range: rangeKey, From: from, To: to}
	for _, l := range lines {
		qty := l.Quantity
		if qty <= 0 {
			qty = 1
		}
		out.Total += qty
		if isApplePhone(l.BrandName, l.CategoryName) {
			out.Apple += qty
		} else {
			out.Others += qty
		}
	}
	return out, nil
}

// ReceiptPDF comprobante de venta en PDF.
func (uc *QueryUseCase) ReceiptPDF(ctx context.Context, id string) ([]byte, string, error) {
	sale, err := uc.GetSale(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.GenerateSaleReceipt(ctx, sale)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", sale.ID), nil
}

// RangeBounds devuelve [from, to) del rango en la zona dada. to es el inicio del día siguiente a hoy
// (o a ayer, para "ayer").
func RangeBounds(rangeKey string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	var fromDay, toDay time.Time
	switch rangeKey {
	case RangeToday:
		fromDay, toDay = today, today
	case RangeYesterday:
		fromDay, toDay = today.AddDate(0, 0, -1), today.AddDate(0, 0, -1)
	case RangeWeek:
		offset := (int(today.Weekday()) + 6) % 7 // lunes = 0
		fromDay, toDay = today.AddDate(0, 0, -offset), today
	case RangeMonth:
		fromDay, toDay = today.AddDate(0, 0, -30), today
	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidRange
	}
	return fromDay, toDay.AddDate(0, 0, 1), nil
}

func isApplePhone(brand, category string) bool {
	return strings.EqualFold(brand, "Apple") && strings.Contains(strings.ToLower(category), "celular")
}
