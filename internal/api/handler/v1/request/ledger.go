package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
)

var (
	errInvalidAmount = errors.New("must be positive with at most 2 decimals")
	errInvalidID     = errors.New("ids must be positive")
)

type CreatePurchaseRequest struct {
	BuyerID        uint   `json:"buyer_id"`
	SellingPointID uint   `json:"selling_point_id"`
	Articles       []uint `json:"articles"`
}

func (req *CreatePurchaseRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerID, validation.Required),
		validation.Field(&req.SellingPointID, validation.Required),
		validation.Field(&req.Articles, validation.Required, validation.By(positiveIDs)),
	)
}

type CreateReloadRequest struct {
	BuyerID        uint            `json:"buyer_id"`
	SellingPointID uint            `json:"selling_point_id"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
	Trace          string          `json:"trace"`
}

func (req *CreateReloadRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerID, validation.Required),
		validation.Field(&req.SellingPointID, validation.Required),
		validation.Field(&req.Amount, validation.By(currencyAmount)),
		validation.Field(&req.Trace, validation.RuneLength(0, domain.MaxTraceLength)),
	)
}

func currencyAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok || !amount.IsPositive() || !domain.IsCurrencyAmount(amount) {
		return errInvalidAmount
	}
	return nil
}

func positiveIDs(value interface{}) error {
	ids, _ := value.([]uint)
	for _, id := range ids {
		if id == 0 {
			return errInvalidID
		}
	}
	return nil
}
