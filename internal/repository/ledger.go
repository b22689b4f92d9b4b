package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
)

var (
	ErrInsufficientCredit = dao.ErrInsufficientCredit
	ErrNothingToCommit    = dao.ErrNothingToCommit
	ErrConflict           = dao.ErrConflict
	ErrAmountTooLarge     = dao.ErrAmountTooLarge
)

type LedgerDAO interface {
	CommitPurchases(ctx context.Context, buyerID uint, purchases []dao.Purchase) (dao.User, error)
	CommitReload(ctx context.Context, reload dao.Reload) (dao.Reload, dao.User, error)
	ListPurchases(ctx context.Context, filter dao.PurchaseFilter) ([]dao.Purchase, error)
	ListReloads(ctx context.Context, filter dao.ReloadFilter) ([]dao.Reload, error)
	SummarizePurchases(ctx context.Context, filter dao.PurchaseFilter) ([]dao.PurchaseSummary, error)
	SummarizeReloads(ctx context.Context, filter dao.ReloadFilter) ([]dao.ReloadSummary, error)
	TotalPurchases(ctx context.Context, filter dao.PurchaseFilter) (decimal.Decimal, error)
	TotalReloads(ctx context.Context, filter dao.ReloadFilter) (decimal.Decimal, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) CommitPurchases(ctx context.Context, buyerID uint, purchases []domain.Purchase) (domain.User, error) {
	rows := make([]dao.Purchase, len(purchases))
	for i, p := range purchases {
		rows[i] = dao.Purchase{
			Price:        p.Price,
			BuyerID:      p.BuyerID,
			SellerID:     p.SellerID,
			ArticleID:    p.ArticleID,
			PointID:      p.PointID,
			FoundationID: p.FoundationID,
		}
	}

	buyer, err := r.dao.CommitPurchases(ctx, buyerID, rows)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.CommitPurchases -> %w", err)
	}

	return daoToDomainUser(buyer), nil
}

func (r *LedgerRepository) CommitReload(ctx context.Context, reload domain.Reload) (domain.Reload, domain.User, error) {
	created, buyer, err := r.dao.CommitReload(ctx, dao.Reload{
		Amount:   reload.Amount,
		Trace:    reload.Trace,
		BuyerID:  reload.BuyerID,
		SellerID: reload.SellerID,
		PointID:  reload.PointID,
	})
	if err != nil {
		return domain.Reload{}, domain.User{}, fmt.Errorf("r.dao.CommitReload -> %w", err)
	}

	return r.daoToDomainReload(created), daoToDomainUser(buyer), nil
}

func (r *LedgerRepository) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	rows, err := r.dao.ListPurchases(ctx, purchaseFilterToDao(filter))
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPurchases -> %w", err)
	}

	purchases := make([]domain.Purchase, len(rows))
	for i, row := range rows {
		purchases[i] = r.daoToDomainPurchase(row)
	}

	return purchases, nil
}

func (r *LedgerRepository) ListReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.Reload, error) {
	rows, err := r.dao.ListReloads(ctx, reloadFilterToDao(filter))
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListReloads -> %w", err)
	}

	reloads := make([]domain.Reload, len(rows))
	for i, row := range rows {
		reloads[i] = r.daoToDomainReload(row)
	}

	return reloads, nil
}

func (r *LedgerRepository) SummarizePurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.PurchaseSummary, error) {
	rows, err := r.dao.SummarizePurchases(ctx, purchaseFilterToDao(filter))
	if err != nil {
		return nil, fmt.Errorf("r.dao.SummarizePurchases -> %w", err)
	}

	summaries := make([]domain.PurchaseSummary, len(rows))
	for i, row := range rows {
		summaries[i] = domain.PurchaseSummary{
			ArticleName: row.ArticleName,
			PointName:   row.PointName,
			Price:       row.Price,
			Count:       row.Count,
			Total:       row.Total,
		}
	}

	return summaries, nil
}

func (r *LedgerRepository) SummarizeReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.ReloadSummary, error) {
	rows, err := r.dao.SummarizeReloads(ctx, reloadFilterToDao(filter))
	if err != nil {
		return nil, fmt.Errorf("r.dao.SummarizeReloads -> %w", err)
	}

	summaries := make([]domain.ReloadSummary, len(rows))
	for i, row := range rows {
		summaries[i] = domain.ReloadSummary{
			PointName: row.PointName,
			Count:     row.Count,
			Total:     row.Total,
		}
	}

	return summaries, nil
}

func (r *LedgerRepository) TotalPurchases(ctx context.Context, filter domain.PurchaseFilter) (decimal.Decimal, error) {
	total, err := r.dao.TotalPurchases(ctx, purchaseFilterToDao(filter))
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.TotalPurchases -> %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) TotalReloads(ctx context.Context, filter domain.ReloadFilter) (decimal.Decimal, error) {
	total, err := r.dao.TotalReloads(ctx, reloadFilterToDao(filter))
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.TotalReloads -> %w", err)
	}

	return total, nil
}

func (r *LedgerRepository) daoToDomainPurchase(p dao.Purchase) domain.Purchase {
	return domain.Purchase{
		ID:           p.ID,
		Date:         p.Date,
		Price:        p.Price,
		BuyerID:      p.BuyerID,
		SellerID:     p.SellerID,
		ArticleID:    p.ArticleID,
		PointID:      p.PointID,
		FoundationID: p.FoundationID,
	}
}

func (r *LedgerRepository) daoToDomainReload(rl dao.Reload) domain.Reload {
	return domain.Reload{
		ID:       rl.ID,
		Date:     rl.Date,
		Amount:   rl.Amount,
		Trace:    rl.Trace,
		BuyerID:  rl.BuyerID,
		SellerID: rl.SellerID,
		PointID:  rl.PointID,
	}
}

func purchaseFilterToDao(f domain.PurchaseFilter) dao.PurchaseFilter {
	return dao.PurchaseFilter{
		Before:       f.Before,
		After:        f.After,
		BuyerID:      f.BuyerID,
		FoundationID: f.FoundationID,
		Limit:        f.Limit,
		Offset:       f.Offset,
	}
}

func reloadFilterToDao(f domain.ReloadFilter) dao.ReloadFilter {
	return dao.ReloadFilter{
		Before:  f.Before,
		After:   f.After,
		BuyerID: f.BuyerID,
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
}
