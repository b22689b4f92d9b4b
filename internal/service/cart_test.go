package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(m *memStore, buyerID uint) *Cart {
	l := newTestLedger(m)
	return l.NewCart(m.users[buyerID], m.users[2], m.points[1])
}

func TestCart_AddArticles(t *testing.T) {
	t.Run("duplicates are separate lines", func(t *testing.T) {
		c := newTestCart(newFairStore(), 1)

		require.NoError(t, c.AddArticles(context.Background(), []uint{1, 1, 2}))

		assert.Equal(t, CartPriced, c.State())
		assert.Len(t, c.Lines(), 3)
		assert.Equal(t, "10.5", c.TotalPrice().String())
	})

	t.Run("one bad id rejects the whole batch", func(t *testing.T) {
		c := newTestCart(newFairStore(), 1)
		require.NoError(t, c.AddArticles(context.Background(), []uint{2}))

		err := c.AddArticles(context.Background(), []uint{1, 3, 4, 3, 42})

		var unresolvable *UnresolvableArticlesError
		require.ErrorAs(t, err, &unresolvable)
		assert.Equal(t, []uint{3, 4, 42}, unresolvable.IDs)
		assert.ErrorIs(t, err, ErrArticlesNotFound)

		assert.Equal(t, CartPriced, c.State())
		assert.Len(t, c.Lines(), 1)
		assert.Equal(t, "2.5", c.TotalPrice().String())
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		m := newFairStore()
		c := newTestCart(m, 1)

		require.NoError(t, c.AddArticles(context.Background(), nil))

		assert.Equal(t, CartEmpty, c.State())
		assert.Zero(t, m.priceQueries)
	})

	t.Run("closed cart refuses articles", func(t *testing.T) {
		c := newTestCart(newFairStore(), 1)
		require.NoError(t, c.AddArticles(context.Background(), []uint{1}))
		_, err := c.Commit(context.Background())
		require.NoError(t, err)

		err = c.AddArticles(context.Background(), []uint{1})
		assert.ErrorIs(t, err, ErrCartClosed)
	})
}

func TestCart_Commit(t *testing.T) {
	t.Run("debits the buyer and records every line", func(t *testing.T) {
		m := newFairStore()
		c := newTestCart(m, 1)
		require.NoError(t, c.AddArticles(context.Background(), []uint{1, 1}))
		require.Equal(t, "8", c.TotalPrice().String())

		buyer, err := c.Commit(context.Background())
		require.NoError(t, err)

		assert.True(t, decimal.RequireFromString("2.00").Equal(buyer.Credit))
		assert.Equal(t, CartCommitted, c.State())
		assert.Empty(t, c.Lines())
		require.Len(t, m.purchases, 2)
		for _, p := range m.purchases {
			assert.True(t, decimal.RequireFromString("4.00").Equal(p.Price))
			assert.Equal(t, uint(1), p.FoundationID)
			assert.Equal(t, uint(2), p.SellerID)
			assert.Equal(t, uint(1), p.PointID)
		}
	})

	t.Run("insufficient credit fails the cart", func(t *testing.T) {
		m := newFairStore()
		m.addUser(3, "3.00", 1)
		c := newTestCart(m, 3)
		require.NoError(t, c.AddArticles(context.Background(), []uint{1}))

		_, err := c.Commit(context.Background())

		assert.ErrorIs(t, err, ErrInsufficientCredit)
		assert.Equal(t, CartFailed, c.State())
		assert.ErrorIs(t, c.Err(), ErrInsufficientCredit)
		assert.True(t, decimal.RequireFromString("3.00").Equal(m.credit(3)))
		assert.Empty(t, m.purchases)
	})

	t.Run("empty cart", func(t *testing.T) {
		c := newTestCart(newFairStore(), 1)

		_, err := c.Commit(context.Background())

		assert.ErrorIs(t, err, ErrCartEmpty)
		assert.Equal(t, CartEmpty, c.State())
	})

	t.Run("failed cart cannot be retried", func(t *testing.T) {
		m := newFairStore()
		m.commitErr = errors.New("connection reset")
		c := newTestCart(m, 1)
		require.NoError(t, c.AddArticles(context.Background(), []uint{1}))

		_, err := c.Commit(context.Background())
		require.Error(t, err)

		m.commitErr = nil
		_, err = c.Commit(context.Background())
		assert.ErrorIs(t, err, ErrCartClosed)
		assert.Empty(t, m.purchases)
	})
}

func TestCartState_String(t *testing.T) {
	assert.Equal(t, "priced", CartPriced.String())
	assert.Equal(t, "CartState(9)", CartState(9).String())
}

func TestUnresolvableArticlesError_Error(t *testing.T) {
	err := &UnresolvableArticlesError{IDs: []uint{3, 7}}

	assert.Equal(t, "articles not found: 3, 7", err.Error())
	assert.True(t, errors.Is(err, ErrArticlesNotFound))
}

var _ PurchaseCommitter = (*memStore)(nil)
var _ CatalogRepository = (*memStore)(nil)
var _ LedgerRepository = (*memStore)(nil)
var _ UserRepository = (*memStore)(nil)
var _ AuthUserRepository = (*memStore)(nil)
