package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrNothingToCommit    = errors.New("no purchase to commit")
)

type Purchase struct {
	ID           uint            `gorm:"primaryKey"`
	Date         time.Time       `gorm:"not null;index;autoCreateTime"`
	Price        decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	BuyerID      uint            `gorm:"not null;index"`
	Buyer        User            `gorm:"foreignKey:BuyerID;constraint:OnDelete:RESTRICT"`
	SellerID     uint            `gorm:"not null;index"`
	Seller       User            `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT"`
	ArticleID    uint            `gorm:"not null;index"`
	Article      Article         `gorm:"foreignKey:ArticleID;constraint:OnDelete:RESTRICT"`
	PointID      uint            `gorm:"not null;index"`
	Point        SellingPoint    `gorm:"foreignKey:PointID;constraint:OnDelete:RESTRICT"`
	FoundationID uint            `gorm:"not null;index"`
	Foundation   Foundation      `gorm:"foreignKey:FoundationID;constraint:OnDelete:RESTRICT"`
}

type Reload struct {
	ID       uint            `gorm:"primaryKey"`
	Date     time.Time       `gorm:"not null;index;autoCreateTime"`
	Amount   decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	Trace    string          `gorm:"size:50;not null"`
	BuyerID  uint            `gorm:"not null;index"`
	Buyer    User            `gorm:"foreignKey:BuyerID;constraint:OnDelete:RESTRICT"`
	SellerID uint            `gorm:"not null;index"`
	Seller   User            `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT"`
	PointID  uint            `gorm:"not null;index"`
	Point    SellingPoint    `gorm:"foreignKey:PointID;constraint:OnDelete:RESTRICT"`
}

type PurchaseFilter struct {
	Before       *time.Time
	After        *time.Time
	BuyerID      uint
	FoundationID uint
	Limit        int
	Offset       int
}

type ReloadFilter struct {
	Before  *time.Time
	After   *time.Time
	BuyerID uint
	Limit   int
	Offset  int
}

type PurchaseSummary struct {
	ArticleName string
	PointName   string
	Price       decimal.Decimal
	Count       int
	Total       decimal.Decimal
}

type ReloadSummary struct {
	PointName string
	Count     int
	Total     decimal.Decimal
}

type totalRow struct {
	Total decimal.Decimal
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// CommitPurchases debits the buyer by the sum of the purchase prices and
// inserts every purchase, all in one transaction. The buyer row stays locked
// from the credit check to the commit, so two carts of the same buyer cannot
// both pass the check on a stale balance.
func (d *LedgerDAO) CommitPurchases(ctx context.Context, buyerID uint, purchases []Purchase) (User, error) {
	if len(purchases) == 0 {
		return User{}, ErrNothingToCommit
	}

	total := decimal.Zero
	for i := range purchases {
		purchases[i].BuyerID = buyerID
		total = total.Add(purchases[i].Price)
	}

	var buyer User
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		buyer, err = lockByID(tx, buyerID)
		if err != nil {
			return err
		}

		if buyer.Credit.LessThan(total) {
			return ErrInsufficientCredit
		}

		if err = tx.Omit(clause.Associations).Create(&purchases).Error; err != nil {
			return err
		}

		return moveCredit(tx, &buyer, total.Neg())
	})
	if err != nil {
		return User{}, translatePgError(err)
	}

	return buyer, nil
}

// CommitReload inserts the reload and credits the buyer in one transaction.
func (d *LedgerDAO) CommitReload(ctx context.Context, reload Reload) (Reload, User, error) {
	var buyer User
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		buyer, err = lockByID(tx, reload.BuyerID)
		if err != nil {
			return err
		}

		if err = tx.Omit(clause.Associations).Create(&reload).Error; err != nil {
			return err
		}

		return moveCredit(tx, &buyer, reload.Amount)
	})
	if err != nil {
		return Reload{}, User{}, translatePgError(err)
	}

	return reload, buyer, nil
}

// moveCredit applies delta to the locked buyer row and mirrors it on buyer.
func moveCredit(tx *gorm.DB, buyer *User, delta decimal.Decimal) error {
	result := tx.Model(&User{}).
		Where("id = ?", buyer.ID).
		Updates(map[string]interface{}{
			"credit":     gorm.Expr("credit + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return ErrUserNotFound
	}

	buyer.Credit = buyer.Credit.Add(delta)
	return nil
}

func (d *LedgerDAO) ListPurchases(ctx context.Context, filter PurchaseFilter) ([]Purchase, error) {
	var purchases []Purchase

	tx := d.purchaseScope(ctx, filter).Order("purchases.date DESC, purchases.id DESC")
	tx = paginate(tx, filter.Limit, filter.Offset)
	if err := tx.Find(&purchases).Error; err != nil {
		return nil, err
	}

	return purchases, nil
}

func (d *LedgerDAO) ListReloads(ctx context.Context, filter ReloadFilter) ([]Reload, error) {
	var reloads []Reload

	tx := d.reloadScope(ctx, filter).Order("reloads.date DESC, reloads.id DESC")
	tx = paginate(tx, filter.Limit, filter.Offset)
	if err := tx.Find(&reloads).Error; err != nil {
		return nil, err
	}

	return reloads, nil
}

// SummarizePurchases groups the matching purchases by article, point and price.
func (d *LedgerDAO) SummarizePurchases(ctx context.Context, filter PurchaseFilter) ([]PurchaseSummary, error) {
	var summaries []PurchaseSummary

	err := d.purchaseScope(ctx, filter).
		Select(`a.name AS article_name, sp.name AS point_name, purchases.price,
			COUNT(*) AS count, SUM(purchases.price) AS total`).
		Joins("JOIN articles a ON a.id = purchases.article_id").
		Joins("JOIN selling_points sp ON sp.id = purchases.point_id").
		Group("a.name, sp.name, purchases.price").
		Order("a.name, sp.name, purchases.price").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (d *LedgerDAO) SummarizeReloads(ctx context.Context, filter ReloadFilter) ([]ReloadSummary, error) {
	var summaries []ReloadSummary

	err := d.reloadScope(ctx, filter).
		Select("sp.name AS point_name, COUNT(*) AS count, SUM(reloads.amount) AS total").
		Joins("JOIN selling_points sp ON sp.id = reloads.point_id").
		Group("sp.name").
		Order("sp.name").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (d *LedgerDAO) TotalPurchases(ctx context.Context, filter PurchaseFilter) (decimal.Decimal, error) {
	var row totalRow

	err := d.purchaseScope(ctx, filter).
		Select("COALESCE(SUM(purchases.price), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}

	return row.Total, nil
}

func (d *LedgerDAO) TotalReloads(ctx context.Context, filter ReloadFilter) (decimal.Decimal, error) {
	var row totalRow

	err := d.reloadScope(ctx, filter).
		Select("COALESCE(SUM(reloads.amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}

	return row.Total, nil
}

func (d *LedgerDAO) purchaseScope(ctx context.Context, filter PurchaseFilter) *gorm.DB {
	tx := d.db.WithContext(ctx).Model(&Purchase{})
	if filter.Before != nil {
		tx = tx.Where("purchases.date <= ?", *filter.Before)
	}
	if filter.After != nil {
		tx = tx.Where("purchases.date >= ?", *filter.After)
	}
	if filter.BuyerID != 0 {
		tx = tx.Where("purchases.buyer_id = ?", filter.BuyerID)
	}
	if filter.FoundationID != 0 {
		tx = tx.Where("purchases.foundation_id = ?", filter.FoundationID)
	}
	return tx
}

func (d *LedgerDAO) reloadScope(ctx context.Context, filter ReloadFilter) *gorm.DB {
	tx := d.db.WithContext(ctx).Model(&Reload{})
	if filter.Before != nil {
		tx = tx.Where("reloads.date <= ?", *filter.Before)
	}
	if filter.After != nil {
		tx = tx.Where("reloads.date >= ?", *filter.After)
	}
	if filter.BuyerID != 0 {
		tx = tx.Where("reloads.buyer_id = ?", filter.BuyerID)
	}
	return tx
}

func paginate(tx *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	return tx
}
