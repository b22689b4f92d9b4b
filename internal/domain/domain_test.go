package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, articleID uint, amount string, foundationID uint) PriceCandidate {
	return PriceCandidate{
		Price: Price{
			ID:           id,
			ArticleID:    articleID,
			Amount:       decimal.RequireFromString(amount),
			FoundationID: foundationID,
		},
	}
}

func TestCheapestPrices(t *testing.T) {
	t.Run("lowest amount across groups", func(t *testing.T) {
		got := CheapestPrices([]PriceCandidate{
			candidate(1, 10, "5.00", 1),
			candidate(2, 10, "3.00", 2),
		})

		require.Contains(t, got, uint(10))
		assert.Equal(t, uint(2), got[10].ID)
		assert.Equal(t, uint(2), got[10].Priced().FoundationID)
	})

	t.Run("ties go to the lowest price id whatever the order", func(t *testing.T) {
		forward := CheapestPrices([]PriceCandidate{
			candidate(7, 10, "2.00", 1),
			candidate(4, 10, "2.00", 2),
			candidate(9, 10, "2.00", 3),
		})
		backward := CheapestPrices([]PriceCandidate{
			candidate(9, 10, "2.00", 3),
			candidate(4, 10, "2.00", 2),
			candidate(7, 10, "2.00", 1),
		})

		assert.Equal(t, uint(4), forward[10].ID)
		assert.Equal(t, forward, backward)
	})

	t.Run("scale does not matter", func(t *testing.T) {
		got := CheapestPrices([]PriceCandidate{
			candidate(3, 10, "2.5", 1),
			candidate(1, 10, "2.50", 2),
		})

		assert.Equal(t, uint(1), got[10].ID)
	})

	t.Run("one entry per article", func(t *testing.T) {
		got := CheapestPrices([]PriceCandidate{
			candidate(1, 10, "1.00", 1),
			candidate(2, 11, "1.00", 1),
			candidate(3, 11, "0.50", 1),
		})

		assert.Len(t, got, 2)
		assert.Equal(t, "0.5", got[11].Available().Price.String())
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, CheapestPrices(nil))
	})
}

func TestReload_IsValid(t *testing.T) {
	tests := map[string]bool{
		"20.00": true,
		"0.01":  true,
		"7":     true,
		"1.10":  true,
		"0":     false,
		"-5.00": false,
		"1.001": false,
		"0.001": false,
	}

	for amount, want := range tests {
		t.Run(amount, func(t *testing.T) {
			r := Reload{Amount: decimal.RequireFromString(amount)}
			assert.Equal(t, want, r.IsValid())
		})
	}
}
