package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is the permanent receipt of one sold article. Price is copied at
// sale time and never derived again from the catalog.
type Purchase struct {
	ID           uint            `json:"id"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	BuyerID      uint            `json:"buyer"`
	SellerID     uint            `json:"seller"`
	ArticleID    uint            `json:"article"`
	PointID      uint            `json:"point"`
	FoundationID uint            `json:"foundation"`
}

// MaxTraceLength is the longest reload trace the ledger stores.
const MaxTraceLength = 50

type Reload struct {
	ID       uint            `json:"id"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Trace    string          `json:"trace"`
	BuyerID  uint            `json:"buyer"`
	SellerID uint            `json:"seller"`
	PointID  uint            `json:"point"`
}

// IsValid checks the amount is strictly positive with at most two decimals.
func (r Reload) IsValid() bool {
	return IsCurrencyAmount(r.Amount) && r.Amount.IsPositive()
}

// IsCurrencyAmount reports whether d has no more than two decimal places.
func IsCurrencyAmount(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

type PurchaseFilter struct {
	Before       *time.Time
	After        *time.Time
	BuyerID      uint
	FoundationID uint
	Limit        int
	Offset       int
}

type ReloadFilter struct {
	Before  *time.Time
	After   *time.Time
	BuyerID uint
	Limit   int
	Offset  int
}

type PurchaseSummary struct {
	ArticleName string          `json:"article_name"`
	PointName   string          `json:"point_name"`
	Price       decimal.Decimal `json:"price"`
	Count       int             `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

type ReloadSummary struct {
	PointName string          `json:"point_name"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
}
