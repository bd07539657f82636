package valueobject_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/titipin/backend/internal/domain/shared/valueobject"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := valueobject.NewMoneyIDRFromInt(100_000)
	b := valueobject.NewMoneyIDRFromInt(25_000)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(125_000)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(75_000)))

	// Operands are immutable
	assert.True(t, a.Amount().Equal(decimal.NewFromInt(100_000)))
	assert.True(t, b.Amount().Equal(decimal.NewFromInt(25_000)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	idr := valueobject.NewMoneyIDRFromInt(1_000)
	usd, err := valueobject.NewMoney(decimal.NewFromInt(10), valueobject.USD)
	require.NoError(t, err)

	_, err = idr.Add(usd)
	assert.Error(t, err)

	_, err = idr.Subtract(usd)
	assert.Error(t, err)

	_, err = idr.LessThan(usd)
	assert.Error(t, err)

	assert.Panics(t, func() { idr.MustAdd(usd) })
}

func TestMoney_Comparisons(t *testing.T) {
	small := valueobject.NewMoneyIDRFromInt(80_000)
	big := valueobject.NewMoneyIDRFromInt(100_000)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	gte, err := big.GreaterThanOrEqual(small)
	require.NoError(t, err)
	assert.True(t, gte)

	gte, err = big.GreaterThanOrEqual(valueobject.NewMoneyIDRFromInt(100_000))
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, big.Equals(valueobject.NewMoneyIDRFromInt(100_000)))
	assert.False(t, big.Equals(small))
}

func TestMoney_SignHelpers(t *testing.T) {
	assert.True(t, valueobject.ZeroIDR().IsZero())
	assert.True(t, valueobject.NewMoneyIDRFromInt(1).IsPositive())
	assert.True(t, valueobject.NewMoneyIDRFromInt(-1).IsNegative())
	assert.True(t, valueobject.NewMoneyIDRFromInt(-500).Negate().IsPositive())
	assert.True(t, valueobject.NewMoneyIDRFromInt(-500).Abs().Amount().Equal(decimal.NewFromInt(500)))
}

func TestMoney_FromString(t *testing.T) {
	m, err := valueobject.NewMoneyIDRFromString("12500.50")
	require.NoError(t, err)
	assert.Equal(t, valueobject.IDR, m.Currency())
	assert.Equal(t, "12500.5", m.Amount().String())

	_, err = valueobject.NewMoneyIDRFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_MarshalJSON(t *testing.T) {
	m := valueobject.NewMoneyIDRFromInt(50_000)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"50000","currency":"IDR"}`, string(data))
}
