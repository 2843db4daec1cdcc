package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyBRL(t *testing.T) {
	m := NewMoneyBRL(decimal.NewFromFloat(50.00))
	assert.Equal(t, BRL, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyBRLFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyBRLFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyBRLFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestZeroBRL(t *testing.T) {
	m := ZeroBRL()
	assert.True(t, m.IsZero())
	assert.Equal(t, BRL, m.Currency())
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(10.25)
		b := NewMoneyBRLFromFloat(4.75)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(15.00)))
	})

	t.Run("add mismatched currencies fails", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(10)
		b, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("subtract can go negative", func(t *testing.T) {
		a := NewMoneyBRLFromFloat(5)
		b := NewMoneyBRLFromFloat(8)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("negate is its own inverse", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(42.42)
		assert.True(t, m.Negate().Negate().Equals(m))
	})

	t.Run("abs", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(-9.99)
		assert.True(t, m.Abs().Amount().Equal(decimal.NewFromFloat(9.99)))
	})
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneyBRLFromFloat(1)
	big := NewMoneyBRLFromFloat(2)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, small.Equals(NewMoneyBRLFromFloat(1)))
	assert.False(t, small.Equals(big))
}

func TestMoneySplit(t *testing.T) {
	t.Run("rejects non-positive parts", func(t *testing.T) {
		_, err := NewMoneyBRLFromFloat(100).Split(0)
		assert.Error(t, err)
	})

	t.Run("one part returns the full amount", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(100)
		parts, err := m.Split(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equals(m))
	})

	t.Run("even split", func(t *testing.T) {
		parts, err := NewMoneyBRLFromFloat(90).Split(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		for _, p := range parts {
			assert.True(t, p.Amount().Equal(decimal.NewFromInt(30)))
		}
	})

	t.Run("last part absorbs the remainder", func(t *testing.T) {
		parts, err := NewMoneyBRLFromFloat(100).Split(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.Equal(t, "33.33", parts[0].StringFixed(2))
		assert.Equal(t, "33.33", parts[1].StringFixed(2))
		assert.Equal(t, "33.34", parts[2].StringFixed(2))
	})

	t.Run("parts always sum to the original amount", func(t *testing.T) {
		total := NewMoneyBRLFromFloat(123.47)
		for n := 1; n <= 12; n++ {
			parts, err := total.Split(n)
			require.NoError(t, err)
			sum := ZeroBRL()
			for _, p := range parts {
				sum = sum.MustAdd(p)
			}
			assert.True(t, sum.Equals(total), "n=%d sum=%s", n, sum)
		}
	})
}

func TestMoneyJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyBRLFromFloat(55.10)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.Equals(m))
	})

	t.Run("missing currency defaults to BRL", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"10.00"}`), &m))
		assert.Equal(t, BRL, m.Currency())
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
		assert.Equal(t, BRL, m.Currency())
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
