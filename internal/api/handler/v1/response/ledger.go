package response

import (
	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
)

type Total struct {
	Total decimal.Decimal `json:"total"`
}

type AvailableArticles struct {
	Articles []domain.AvailableArticle `json:"articles"`
}

type Purchases struct {
	Purchases []domain.Purchase `json:"purchases"`
}

type Reloads struct {
	Reloads []domain.Reload `json:"reloads"`
}

type PurchaseSummaries struct {
	Summaries []domain.PurchaseSummary `json:"summaries"`
}

type ReloadSummaries struct {
	Summaries []domain.ReloadSummary `json:"summaries"`
}
