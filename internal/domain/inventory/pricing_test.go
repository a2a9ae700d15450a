package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltechnology/inventario-ventas/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEffectivePrice(t *testing.T) {
	override := d("850")
	assert.True(t, EffectivePrice(&override, d("1000")).Equal(d("850")))
	assert.True(t, EffectivePrice(nil, d("1000")).Equal(d("1000")))
}

func TestSaleTotal_Ejemplo(t *testing.T) {
	// unidad 1000 con 50 de descuento + 3 fundas a 20 con descuento global 10
	lines := []Line{
		{UnitPrice: d("1000"), Discount: d("50"), Quantity: 1},
		{UnitPrice: d("20"), Discount: decimal.Zero, Quantity: 3},
	}
	subtotal, total, err := SaleTotal(lines, d("10"))
	require.NoError(t, err)
	assert.True(t, subtotal.Equal(d("1010")), subtotal.String())
	assert.True(t, total.Equal(d("1000")), total.String())
}

func TestSaleTotal_EsConmutativo(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("199.99"), Discount: d("0.99"), Quantity: 2},
		{UnitPrice: d("1000"), Discount: d("50"), Quantity: 1},
		{UnitPrice: d("15.50"), Discount: decimal.Zero, Quantity: 4},
	}
	_, a, err := SaleTotal(lines, d("5"))
	require.NoError(t, err)

	reversed := []Line{lines[2], lines[0], lines[1]}
	_, b, err := SaleTotal(reversed, d("5"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestSaleTotal_DescuentoMayorAlSubtotal(t *testing.T) {
	lines := []Line{{UnitPrice: d("10"), Quantity: 1}}
	_, _, err := SaleTotal(lines, d("11"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLineValidate(t *testing.T) {
	assert.NoError(t, Line{UnitPrice: d("10"), Discount: d("10"), Quantity: 1}.Validate())
	assert.ErrorIs(t, Line{UnitPrice: d("10"), Discount: d("11"), Quantity: 1}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, Line{UnitPrice: d("-1"), Quantity: 1}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, Line{UnitPrice: d("1"), Quantity: 0}.Validate(), domain.ErrInvalidInput)
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(d("0")))
	assert.NoError(t, ValidateAmount(d("19.99")))
	assert.NoError(t, ValidateAmount(d("1.500")), "ceros a la derecha no agregan precisión")
	assert.ErrorIs(t, ValidateAmount(d("0.005")), domain.ErrAmountScale)
	assert.ErrorIs(t, ValidateAmount(d("10.001")), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateAmount(d("-0.01")), domain.ErrNegativeAmount)
	assert.ErrorIs(t, ValidateAmount(d("1000000000000")), domain.ErrAmountTooLarge)
}

func TestSaleTotal_RechazaMasDeDosDecimales(t *testing.T) {
	lines := []Line{{UnitPrice: d("10"), Quantity: 1}}
	_, _, err := SaleTotal(lines, d("0.125"))
	assert.ErrorIs(t, err, domain.ErrAmountScale)

	err = Line{UnitPrice: d("0.005"), Quantity: 2}.Validate()
	assert.ErrorIs(t, err, domain.ErrAmountScale)
}

func TestSaleTotal_SubtotalFueraDeRango(t *testing.T) {
	lines := []Line{{UnitPrice: d("999999999999.99"), Quantity: 2}}
	_, _, err := SaleTotal(lines, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrAmountTooLarge)
}
