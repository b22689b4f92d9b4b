package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory catalog and ledger shared by the service tests.
// The mutex plays the part of the buyer row lock.
type memStore struct {
	mu sync.Mutex

	users     map[uint]domain.User
	points    map[uint]domain.SellingPoint
	articles  map[uint]domain.Article
	periods   map[uint]domain.Period
	prices    []domain.Price
	purchases []domain.Purchase
	reloads   []domain.Reload

	priceQueries int
	commitErr    error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uint]domain.User),
		points:   make(map[uint]domain.SellingPoint),
		articles: make(map[uint]domain.Article),
		periods:  make(map[uint]domain.Period),
	}
}

func (m *memStore) addUser(id uint, credit string, groups ...uint) {
	m.users[id] = domain.User{
		ID:       id,
		Username: fmt.Sprintf("user%d", id),
		Credit:   decimal.RequireFromString(credit),
		GroupIDs: groups,
	}
}

func (m *memStore) addPrice(id, articleID, foundationID, periodID, groupID uint, amount string) {
	m.prices = append(m.prices, domain.Price{
		ID:           id,
		Amount:       decimal.RequireFromString(amount),
		ArticleID:    articleID,
		FoundationID: foundationID,
		PeriodID:     periodID,
		GroupID:      groupID,
	})
}

func (m *memStore) credit(id uint) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Credit
}

func (m *memStore) FindByID(_ context.Context, id uint) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.IsRemoved {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username && !u.IsRemoved {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *memStore) FindSellingPointByID(_ context.Context, id uint) (domain.SellingPoint, error) {
	p, ok := m.points[id]
	if !ok || p.IsRemoved {
		return domain.SellingPoint{}, repository.ErrSellingPointNotFound
	}
	return p, nil
}

func (m *memStore) FindActivePrices(_ context.Context, buyerID, pointID uint, articleIDs []uint, at time.Time) ([]domain.PriceCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceQueries++

	buyer, ok := m.users[buyerID]
	if !ok || buyer.IsRemoved {
		return nil, nil
	}
	groups := toSet(buyer.GroupIDs)

	var sold map[uint]struct{}
	if pointID != 0 {
		point, ok := m.points[pointID]
		if !ok || point.IsRemoved {
			return nil, nil
		}
		sold = toSet(point.ArticleIDs)
	}
	wanted := toSet(articleIDs)

	var out []domain.PriceCandidate
	for _, p := range m.prices {
		article, ok := m.articles[p.ArticleID]
		if p.IsRemoved || !ok || article.IsRemoved {
			continue
		}
		if _, ok := groups[p.GroupID]; !ok {
			continue
		}
		if period := m.periods[p.PeriodID]; period.StartsAt.After(at) || (period.EndsAt != nil && period.EndsAt.Before(at)) {
			continue
		}
		if _, ok := wanted[p.ArticleID]; len(articleIDs) > 0 && !ok {
			continue
		}
		if _, ok := sold[p.ArticleID]; sold != nil && !ok {
			continue
		}
		out = append(out, domain.PriceCandidate{
			Price:       p,
			ArticleName: article.Name,
			CategoryID:  article.CategoryID,
			Stock:       article.Stock,
		})
	}

	return out, nil
}

func (m *memStore) CommitPurchases(_ context.Context, buyerID uint, purchases []domain.Purchase) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.commitErr != nil {
		return domain.User{}, m.commitErr
	}

	buyer, ok := m.users[buyerID]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Price)
	}
	if buyer.Credit.LessThan(total) {
		return domain.User{}, repository.ErrInsufficientCredit
	}

	for _, p := range purchases {
		p.ID = uint(len(m.purchases) + 1)
		p.Date = fixedNow
		m.purchases = append(m.purchases, p)
	}
	buyer.Credit = buyer.Credit.Sub(total)
	m.users[buyerID] = buyer

	return buyer, nil
}

func (m *memStore) CommitReload(_ context.Context, reload domain.Reload) (domain.Reload, domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buyer, ok := m.users[reload.BuyerID]
	if !ok {
		return domain.Reload{}, domain.User{}, repository.ErrUserNotFound
	}

	reload.ID = uint(len(m.reloads) + 1)
	reload.Date = fixedNow
	m.reloads = append(m.reloads, reload)
	buyer.Credit = buyer.Credit.Add(reload.Amount)
	m.users[reload.BuyerID] = buyer

	return reload, buyer, nil
}

func (m *memStore) ListPurchases(_ context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range m.purchases {
		if filter.BuyerID != 0 && p.BuyerID != filter.BuyerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) ListReloads(_ context.Context, filter domain.ReloadFilter) ([]domain.Reload, error) {
	var out []domain.Reload
	for _, r := range m.reloads {
		if filter.BuyerID != 0 && r.BuyerID != filter.BuyerID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) SummarizePurchases(context.Context, domain.PurchaseFilter) ([]domain.PurchaseSummary, error) {
	return nil, errors.New("not implemented")
}

func (m *memStore) SummarizeReloads(context.Context, domain.ReloadFilter) ([]domain.ReloadSummary, error) {
	return nil, errors.New("not implemented")
}

func (m *memStore) TotalPurchases(ctx context.Context, filter domain.PurchaseFilter) (decimal.Decimal, error) {
	purchases, _ := m.ListPurchases(ctx, filter)
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Price)
	}
	return total, nil
}

func (m *memStore) TotalReloads(ctx context.Context, filter domain.ReloadFilter) (decimal.Decimal, error) {
	reloads, _ := m.ListReloads(ctx, filter)
	total := decimal.Zero
	for _, r := range reloads {
		total = total.Add(r.Amount)
	}
	return total, nil
}

func toSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// newFairStore seeds a small catalog: two groups, one active and one expired
// period, a bar selling articles 1 to 3, and a buyer in group 1.
func newFairStore() *memStore {
	m := newMemStore()

	past := fixedNow.Add(-48 * time.Hour)
	yesterday := fixedNow.Add(-24 * time.Hour)
	m.periods[1] = domain.Period{ID: 1, Name: "always", StartsAt: past}
	m.periods[2] = domain.Period{ID: 2, Name: "expired", StartsAt: past, EndsAt: &yesterday}

	m.articles[1] = domain.Article{ID: 1, Name: "Beer", CategoryID: 1, Stock: -1}
	m.articles[2] = domain.Article{ID: 2, Name: "Crepe", CategoryID: 2, Stock: 12}
	m.articles[3] = domain.Article{ID: 3, Name: "Soda", CategoryID: 1, Stock: -1}
	m.articles[4] = domain.Article{ID: 4, Name: "Hotdog", CategoryID: 2, Stock: -1}

	m.points[1] = domain.SellingPoint{ID: 1, Name: "Bar", ArticleIDs: []uint{1, 2, 3}}

	m.addPrice(1, 1, 1, 1, 1, "4.00")
	m.addPrice(2, 2, 2, 1, 1, "2.50")
	m.addPrice(3, 3, 1, 2, 1, "1.00")
	m.addPrice(4, 4, 1, 1, 1, "3.00")

	m.addUser(1, "10.00", 1)
	m.addUser(2, "0.00", 1)

	return m
}

func newTestPricing(m *memStore) *PricingService {
	s := NewPricingService(m)
	s.now = func() time.Time { return fixedNow }
	return s
}

func newTestLedger(m *memStore) *LedgerService {
	return NewLedgerService(m, m, m, newTestPricing(m))
}
