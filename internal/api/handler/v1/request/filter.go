package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/buckutt/buckutt-api/internal/domain"
)

var errAfterPastBefore = errors.New("must not be later than before")

const (
	defaultLimit = 50
	maxLimit     = 500
)

type AvailableArticlesQuery struct {
	SellingPointID uint `form:"selling_point_id"`
	UserID         uint `form:"user_id"`
}

func (q *AvailableArticlesQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.SellingPointID, validation.Required),
		validation.Field(&q.UserID, validation.Required),
	)
}

type HistoryQuery struct {
	Before     *time.Time `form:"before" time_format:"2006-01-02T15:04:05Z07:00"`
	After      *time.Time `form:"after" time_format:"2006-01-02T15:04:05Z07:00"`
	Buyer      uint       `form:"buyer"`
	Foundation uint       `form:"foundation"`
	Limit      int        `form:"limit"`
	Offset     int        `form:"offset"`
}

func (q *HistoryQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxLimit)),
		validation.Field(&q.Offset, validation.Min(0)),
		validation.Field(&q.After, validation.By(q.checkRange)),
	)
}

func (q *HistoryQuery) checkRange(interface{}) error {
	if q.Before != nil && q.After != nil && q.After.After(*q.Before) {
		return errAfterPastBefore
	}
	return nil
}

func (q *HistoryQuery) limit() int {
	if q.Limit == 0 {
		return defaultLimit
	}
	return q.Limit
}

func (q *HistoryQuery) PurchaseFilter() domain.PurchaseFilter {
	return domain.PurchaseFilter{
		Before:       q.Before,
		After:        q.After,
		BuyerID:      q.Buyer,
		FoundationID: q.Foundation,
		Limit:        q.limit(),
		Offset:       q.Offset,
	}
}

func (q *HistoryQuery) ReloadFilter() domain.ReloadFilter {
	return domain.ReloadFilter{
		Before:  q.Before,
		After:   q.After,
		BuyerID: q.Buyer,
		Limit:   q.limit(),
		Offset:  q.Offset,
	}
}
