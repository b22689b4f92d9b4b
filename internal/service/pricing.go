package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository"
)

var (
	ErrNotPriced            = errors.New("article has no active price for this buyer")
	ErrSellingPointNotFound = repository.ErrSellingPointNotFound
)

type CatalogRepository interface {
	FindSellingPointByID(ctx context.Context, id uint) (domain.SellingPoint, error)
	FindActivePrices(ctx context.Context, buyerID, pointID uint, articleIDs []uint, at time.Time) ([]domain.PriceCandidate, error)
}

type PricingService struct {
	repo CatalogRepository
	now  func() time.Time
}

func NewPricingService(repo CatalogRepository) *PricingService {
	return &PricingService{
		repo: repo,
		now:  time.Now,
	}
}

// Resolve returns the cheapest price buyerID can pay for articleID right now.
func (s *PricingService) Resolve(ctx context.Context, buyerID, articleID uint) (domain.PricedArticle, error) {
	priced, err := s.ResolveMany(ctx, buyerID, 0, []uint{articleID})
	if err != nil {
		return domain.PricedArticle{}, err
	}

	p, ok := priced[articleID]
	if !ok {
		return domain.PricedArticle{}, ErrNotPriced
	}

	return p, nil
}

// ResolveMany prices every distinct id of ids in a single read. Ids that have
// no active price are absent from the result. A non-zero pointID also drops
// articles that pointID does not sell.
func (s *PricingService) ResolveMany(ctx context.Context, buyerID, pointID uint, ids []uint) (map[uint]domain.PricedArticle, error) {
	if len(ids) == 0 {
		return map[uint]domain.PricedArticle{}, nil
	}

	candidates, err := s.repo.FindActivePrices(ctx, buyerID, pointID, distinct(ids), s.now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActivePrices -> %w", err)
	}

	cheapest := domain.CheapestPrices(candidates)
	priced := make(map[uint]domain.PricedArticle, len(cheapest))
	for id, c := range cheapest {
		priced[id] = c.Priced()
	}

	return priced, nil
}

// AvailableNow lists the ids of the articles buyerID can be sold at pointID
// right now, in ascending order. An unknown point or buyer yields no ids.
func (s *PricingService) AvailableNow(ctx context.Context, pointID, buyerID uint) ([]uint, error) {
	articles, err := s.AvailableArticles(ctx, pointID, buyerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}

	return ids, nil
}

func (s *PricingService) AvailableArticles(ctx context.Context, pointID, buyerID uint) ([]domain.AvailableArticle, error) {
	if pointID == 0 || buyerID == 0 {
		return []domain.AvailableArticle{}, nil
	}

	candidates, err := s.repo.FindActivePrices(ctx, buyerID, pointID, nil, s.now())
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActivePrices -> %w", err)
	}

	cheapest := domain.CheapestPrices(candidates)
	articles := make([]domain.AvailableArticle, 0, len(cheapest))
	for _, c := range cheapest {
		articles = append(articles, c.Available())
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].ID < articles[j].ID
	})

	return articles, nil
}

func distinct(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
