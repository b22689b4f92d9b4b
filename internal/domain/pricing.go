package domain

import "github.com/shopspring/decimal"

// PricedArticle is the outcome of price resolution for one article and one buyer.
type PricedArticle struct {
	ArticleID    uint            `json:"article_id"`
	PriceID      uint            `json:"-"`
	Amount       decimal.Decimal `json:"price"`
	FoundationID uint            `json:"foundation"`
}

// AvailableArticle is an article sellable right now, annotated with the
// price and foundation that apply to the buyer.
type AvailableArticle struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	CategoryID   uint            `json:"category"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
	FoundationID uint            `json:"foundation"`
}

// PriceCandidate is an active price row that matched a buyer's groups, along
// with the article it belongs to.
type PriceCandidate struct {
	Price
	ArticleName string
	CategoryID  uint
	Stock       int
}

// CheapestPrices keeps, per article, the candidate with the lowest amount.
// Ties on the amount go to the lowest price id so the choice never depends
// on row order.
func CheapestPrices(candidates []PriceCandidate) map[uint]PriceCandidate {
	best := make(map[uint]PriceCandidate, len(candidates))
	for _, c := range candidates {
		cur, ok := best[c.ArticleID]
		if !ok || cheaper(c.Price, cur.Price) {
			best[c.ArticleID] = c
		}
	}
	return best
}

func cheaper(a, b Price) bool {
	switch a.Amount.Cmp(b.Amount) {
	case -1:
		return true
	case 0:
		return a.ID < b.ID
	default:
		return false
	}
}

func (c PriceCandidate) Priced() PricedArticle {
	return PricedArticle{
		ArticleID:    c.ArticleID,
		PriceID:      c.ID,
		Amount:       c.Amount,
		FoundationID: c.FoundationID,
	}
}

func (c PriceCandidate) Available() AvailableArticle {
	return AvailableArticle{
		ID:           c.ArticleID,
		Name:         c.ArticleName,
		CategoryID:   c.CategoryID,
		Stock:        c.Stock,
		Price:        c.Amount,
		FoundationID: c.FoundationID,
	}
}
