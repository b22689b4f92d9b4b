package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID          uint            `json:"id"`
	Username    string          `json:"username"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Nickname    string          `json:"nickname,omitempty"`
	Email       string          `json:"email"`
	Password    string          `json:"-"`
	Credit      decimal.Decimal `json:"credit"`
	GroupIDs    []uint          `json:"-"`
	IsTemporary bool            `json:"-"`
	IsRemoved   bool            `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
