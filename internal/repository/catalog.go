package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
)

var (
	ErrSellingPointNotFound = dao.ErrSellingPointNotFound
	ErrDuplicatePrice       = dao.ErrDuplicatePrice
)

type CatalogDAO interface {
	FindSellingPointByID(ctx context.Context, id uint) (dao.SellingPoint, error)
	FindActivePrices(ctx context.Context, q dao.PriceQuery) ([]dao.PriceCandidate, error)
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) FindSellingPointByID(ctx context.Context, id uint) (domain.SellingPoint, error) {
	point, err := r.dao.FindSellingPointByID(ctx, id)
	if err != nil {
		return domain.SellingPoint{}, fmt.Errorf("r.dao.FindSellingPointByID -> %w", err)
	}

	return domain.SellingPoint{
		ID:        point.ID,
		Name:      point.Name,
		IsRemoved: point.IsRemoved,
	}, nil
}

// FindActivePrices lists the live prices buyerID is entitled to at time at.
// pointID restricts them to articles sold at that point unless it is zero.
func (r *CatalogRepository) FindActivePrices(ctx context.Context, buyerID, pointID uint, articleIDs []uint, at time.Time) ([]domain.PriceCandidate, error) {
	rows, err := r.dao.FindActivePrices(ctx, dao.PriceQuery{
		BuyerID:    buyerID,
		PointID:    pointID,
		ArticleIDs: articleIDs,
		At:         at,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActivePrices -> %w", err)
	}

	candidates := make([]domain.PriceCandidate, len(rows))
	for i, row := range rows {
		candidates[i] = domain.PriceCandidate{
			Price: domain.Price{
				ID:           row.PriceID,
				Amount:       row.Amount,
				ArticleID:    row.ArticleID,
				FoundationID: row.FoundationID,
				PeriodID:     row.PeriodID,
				GroupID:      row.GroupID,
			},
			ArticleName: row.ArticleName,
			CategoryID:  row.CategoryID,
			Stock:       row.Stock,
		}
	}

	return candidates, nil
}
