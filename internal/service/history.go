package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/buckutt/buckutt-api/internal/domain"
)

func (s *LedgerService) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	purchases, err := s.repo.ListPurchases(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPurchases -> %w", err)
	}

	return purchases, nil
}

func (s *LedgerService) ListReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.Reload, error) {
	reloads, err := s.repo.ListReloads(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListReloads -> %w", err)
	}

	return reloads, nil
}

func (s *LedgerService) SummarizePurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.PurchaseSummary, error) {
	summaries, err := s.repo.SummarizePurchases(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SummarizePurchases -> %w", err)
	}

	return summaries, nil
}

func (s *LedgerService) SummarizeReloads(ctx context.Context, filter domain.ReloadFilter) ([]domain.ReloadSummary, error) {
	summaries, err := s.repo.SummarizeReloads(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SummarizeReloads -> %w", err)
	}

	return summaries, nil
}

func (s *LedgerService) TotalPurchases(ctx context.Context, filter domain.PurchaseFilter) (decimal.Decimal, error) {
	total, err := s.repo.TotalPurchases(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("s.repo.TotalPurchases -> %w", err)
	}

	return total, nil
}

func (s *LedgerService) TotalReloads(ctx context.Context, filter domain.ReloadFilter) (decimal.Decimal, error) {
	total, err := s.repo.TotalReloads(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("s.repo.TotalReloads -> %w", err)
	}

	return total, nil
}
