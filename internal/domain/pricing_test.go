package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeTotal(t *testing.T) {
	parts := []OrderPartLine{
		{PartID: "rep_1", Quantity: 2, UnitPrice: money(25000)},
	}
	labor := []LaborLine{
		{ID: "serv_1", Description: "Ajuste de frenos", Price: money(20000)},
		{ID: "serv_2", Description: "Ajuste de cambios", Price: money(15000)},
	}

	total, err := ComputeTotal(parts, labor)
	require.NoError(t, err)
	assert.True(t, total.Equal(money(85000)), "got %s", total)
}

func TestComputeTotalEmpty(t *testing.T) {
	total, err := ComputeTotal(nil, nil)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestComputeTotalRejectsZeroQuantity(t *testing.T) {
	parts := []OrderPartLine{{PartID: "rep_1", Quantity: 0, UnitPrice: money(1000)}}
	_, err := ComputeTotal(parts, nil)
	require.ErrorIs(t, err, ErrNonPositiveQuantity)
}

func TestComputeTotalRejectsNegativePrices(t *testing.T) {
	parts := []OrderPartLine{{PartID: "rep_1", Quantity: 1, UnitPrice: money(-5)}}
	_, err := ComputeTotal(parts, nil)
	require.ErrorIs(t, err, ErrNegativePrice)

	labor := []LaborLine{{ID: "serv_1", Price: money(-1)}}
	_, err = ComputeTotal(nil, labor)
	require.ErrorIs(t, err, ErrNegativePrice)
}

func TestComputeTotalExactDecimals(t *testing.T) {
	parts := []OrderPartLine{
		{PartID: "a", Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
	}
	total, err := ComputeTotal(parts, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
}

func TestComputeBalance(t *testing.T) {
	assert.True(t, ComputeBalance(money(85000), money(40000)).Equal(money(45000)))

	// Overpayment is not clamped.
	assert.True(t, ComputeBalance(money(10000), money(15000)).Equal(money(-5000)))
}
