package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category"`
	Name       string `json:"name"`
	// Stock is informational; -1 means the article is not tracked.
	Stock     int  `json:"stock"`
	IsRemoved bool `json:"-"`
}

type Foundation struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website"`
	Mail      string `json:"mail"`
	IsRemoved bool   `json:"-"`
}

type Group struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Period is a validity window for prices. A nil EndsAt leaves it open-ended.
type Period struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

type Price struct {
	ID           uint            `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	ArticleID    uint            `json:"article_id"`
	FoundationID uint            `json:"foundation_id"`
	PeriodID     uint            `json:"period_id"`
	GroupID      uint            `json:"group_id"`
	IsRemoved    bool            `json:"-"`
}

type SellingPoint struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ArticleIDs []uint `json:"-"`
	IsRemoved  bool   `json:"-"`
}
