package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository"
)

var (
	ErrInsufficientCredit = repository.ErrInsufficientCredit
	ErrConflict           = repository.ErrConflict
	ErrAmountTooLarge     = repository.ErrAmountTooLarge
	ErrInvalidAmount      = errors.New("amount must be positive with at most 2 decimals")
	ErrTraceTooLong       = fmt.Errorf("trace must be at most %d characters", domain.MaxTraceLength)
	ErrSellerNotFound     = errors.New("seller account no longer exists")
)

type LedgerRepository interface {
	PurchaseCommitter
	CommitReload(ctx context.Context, reload domain.Reload) (domain.Reload, domain.User, error)
	ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)
	ListReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.Reload, error)
	SummarizePurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.PurchaseSummary, error)
	SummarizeReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.ReloadSummary, error)
	TotalPurchases(ctx context.Context, filter domain.PurchaseFilter) (decimal.Decimal, error)
	TotalReloads(ctx context.Context, filter domain.ReloadFilter) (decimal.Decimal, error)
}

type PurchaseInput struct {
	BuyerID    uint
	SellerID   uint
	PointID    uint
	ArticleIDs []uint
}

type ReloadInput struct {
	BuyerID  uint
	SellerID uint
	PointID  uint
	Amount   decimal.Decimal
	Trace    string
}

type LedgerService struct {
	repo    LedgerRepository
	users   UserRepository
	catalog CatalogRepository
	prices  PriceResolver
}

func NewLedgerService(repo LedgerRepository, users UserRepository, catalog CatalogRepository, prices PriceResolver) *LedgerService {
	return &LedgerService{
		repo:    repo,
		users:   users,
		catalog: catalog,
		prices:  prices,
	}
}

func (s *LedgerService) NewCart(buyer, seller domain.User, point domain.SellingPoint) *Cart {
	return newCart(buyer, seller, point, s.prices, s.repo)
}

func (s *LedgerService) CreatePurchase(ctx context.Context, in PurchaseInput) (domain.User, error) {
	buyer, seller, point, err := s.findParties(ctx, in.BuyerID, in.SellerID, in.PointID)
	if err != nil {
		return domain.User{}, err
	}

	cart := s.NewCart(buyer, seller, point)
	if err = cart.AddArticles(ctx, in.ArticleIDs); err != nil {
		return domain.User{}, err
	}

	total := cart.TotalPrice()
	updated, err := cart.Commit(ctx)
	if err != nil {
		return domain.User{}, err
	}

	zap.L().Info("purchase committed",
		zap.Uint("buyer_id", buyer.ID),
		zap.Uint("seller_id", seller.ID),
		zap.Uint("point_id", point.ID),
		zap.Int("articles", len(in.ArticleIDs)),
		zap.String("total", total.StringFixed(2)),
	)

	return updated, nil
}

func (s *LedgerService) CreateReload(ctx context.Context, in ReloadInput) (domain.User, error) {
	reload := domain.Reload{
		Amount:   in.Amount,
		Trace:    in.Trace,
		BuyerID:  in.BuyerID,
		SellerID: in.SellerID,
		PointID:  in.PointID,
	}
	if !reload.IsValid() {
		return domain.User{}, ErrInvalidAmount
	}
	if utf8.RuneCountInString(reload.Trace) > domain.MaxTraceLength {
		return domain.User{}, ErrTraceTooLong
	}
	if reload.Trace == "" {
		reload.Trace = uuid.NewString()
	}

	if _, _, _, err := s.findParties(ctx, in.BuyerID, in.SellerID, in.PointID); err != nil {
		return domain.User{}, err
	}

	created, buyer, err := s.repo.CommitReload(ctx, reload)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.CommitReload -> %w", err)
	}

	zap.L().Info("reload committed",
		zap.Uint("reload_id", created.ID),
		zap.Uint("buyer_id", created.BuyerID),
		zap.String("amount", created.Amount.StringFixed(2)),
		zap.String("trace", created.Trace),
	)

	return buyer, nil
}

func (s *LedgerService) findParties(ctx context.Context, buyerID, sellerID, pointID uint) (domain.User, domain.User, domain.SellingPoint, error) {
	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return domain.User{}, domain.User{}, domain.SellingPoint{}, fmt.Errorf("buyer: s.users.FindByID -> %w", err)
	}

	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.User{}, domain.User{}, domain.SellingPoint{}, ErrSellerNotFound
		}
		return domain.User{}, domain.User{}, domain.SellingPoint{}, fmt.Errorf("seller: s.users.FindByID -> %w", err)
	}

	point, err := s.catalog.FindSellingPointByID(ctx, pointID)
	if err != nil {
		return domain.User{}, domain.User{}, domain.SellingPoint{}, fmt.Errorf("s.catalog.FindSellingPointByID -> %w", err)
	}

	return buyer, seller, point, nil
}
