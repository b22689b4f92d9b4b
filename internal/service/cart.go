package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
)

var (
	ErrArticlesNotFound = errors.New("articles not found")
	ErrCartClosed       = errors.New("cart is already committed or failed")
	ErrCartEmpty        = errors.New("cart is empty")
)

// UnresolvableArticlesError lists the article ids a cart could not price.
type UnresolvableArticlesError struct {
	IDs []uint
}

func (e *UnresolvableArticlesError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}

	return fmt.Sprintf("%v: %s", ErrArticlesNotFound, strings.Join(ids, ", "))
}

func (e *UnresolvableArticlesError) Unwrap() error {
	return ErrArticlesNotFound
}

type CartState int

const (
	CartEmpty CartState = iota
	CartPriced
	CartCommitted
	CartFailed
)

func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "empty"
	case CartPriced:
		return "priced"
	case CartCommitted:
		return "committed"
	case CartFailed:
		return "failed"
	default:
		return fmt.Sprintf("CartState(%d)", int(s))
	}
}

type PriceResolver interface {
	ResolveMany(ctx context.Context, buyerID, pointID uint, ids []uint) (map[uint]domain.PricedArticle, error)
}

type PurchaseCommitter interface {
	CommitPurchases(ctx context.Context, buyerID uint, purchases []domain.Purchase) (domain.User, error)
}

// Cart collects priced articles for one buyer at one selling point and
// commits them as a single ledger transaction. A Cart belongs to the request
// that built it and is not safe for concurrent use.
type Cart struct {
	buyer  domain.User
	seller domain.User
	point  domain.SellingPoint

	lines   []domain.PricedArticle
	state   CartState
	failure error

	prices PriceResolver
	ledger PurchaseCommitter
}

func newCart(buyer, seller domain.User, point domain.SellingPoint, prices PriceResolver, ledger PurchaseCommitter) *Cart {
	return &Cart{
		buyer:  buyer,
		seller: seller,
		point:  point,
		state:  CartEmpty,
		prices: prices,
		ledger: ledger,
	}
}

func (c *Cart) State() CartState {
	return c.state
}

// Err is the reason the cart failed, nil unless State is CartFailed.
func (c *Cart) Err() error {
	return c.failure
}

func (c *Cart) Lines() []domain.PricedArticle {
	lines := make([]domain.PricedArticle, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// AddArticles prices ids for the buyer and appends one line per id, repeated
// ids included. Either every id is added or none is.
func (c *Cart) AddArticles(ctx context.Context, ids []uint) error {
	if c.state == CartCommitted || c.state == CartFailed {
		return ErrCartClosed
	}
	if len(ids) == 0 {
		return nil
	}

	priced, err := c.prices.ResolveMany(ctx, c.buyer.ID, c.point.ID, ids)
	if err != nil {
		return fmt.Errorf("c.prices.ResolveMany -> %w", err)
	}

	var missing []uint
	seen := make(map[uint]struct{})
	lines := make([]domain.PricedArticle, 0, len(ids))
	for _, id := range ids {
		p, ok := priced[id]
		if !ok {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				missing = append(missing, id)
			}
			continue
		}
		lines = append(lines, p)
	}
	if len(missing) > 0 {
		return &UnresolvableArticlesError{IDs: missing}
	}

	c.lines = append(c.lines, lines...)
	c.state = CartPriced

	return nil
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Amount)
	}

	return total
}

// Commit records every line as a purchase and debits the buyer in one
// transaction. It returns the buyer as stored after the debit.
func (c *Cart) Commit(ctx context.Context) (domain.User, error) {
	switch c.state {
	case CartEmpty:
		return domain.User{}, ErrCartEmpty
	case CartCommitted, CartFailed:
		return domain.User{}, ErrCartClosed
	}

	purchases := make([]domain.Purchase, len(c.lines))
	for i, l := range c.lines {
		purchases[i] = domain.Purchase{
			Price:        l.Amount,
			BuyerID:      c.buyer.ID,
			SellerID:     c.seller.ID,
			ArticleID:    l.ArticleID,
			PointID:      c.point.ID,
			FoundationID: l.FoundationID,
		}
	}

	buyer, err := c.ledger.CommitPurchases(ctx, c.buyer.ID, purchases)
	if err != nil {
		c.state = CartFailed
		c.failure = err
		return domain.User{}, fmt.Errorf("c.ledger.CommitPurchases -> %w", err)
	}

	c.state = CartCommitted
	c.lines = nil
	c.buyer = buyer

	return buyer, nil
}
