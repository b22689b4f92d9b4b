package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSellingPointNotFound = errors.New("selling point not found")
	ErrDuplicatePrice       = errors.New("a price already exists for this article, foundation, period and group")
)

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:40;unique;not null"`
}

type Article struct {
	ID         uint     `gorm:"primaryKey"`
	Name       string   `gorm:"size:40;unique;not null"`
	CategoryID uint     `gorm:"not null;index"`
	Category   Category `gorm:"foreignKey:CategoryID"`
	Stock      int      `gorm:"not null"`
	IsRemoved  bool     `gorm:"not null;default:false"`
}

type Foundation struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:40;unique;not null"`
	Website   string `gorm:"not null"`
	Mail      string `gorm:"unique;not null"`
	IsRemoved bool   `gorm:"not null;default:false"`
}

type Period struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:50;unique;not null"`
	StartsAt time.Time `gorm:"not null;index"`
	EndsAt   *time.Time
}

type Group struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:150;unique;not null"`
}

type Price struct {
	ID           uint            `gorm:"primaryKey"`
	Amount       decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	ArticleID    uint            `gorm:"not null;uniqueIndex:idx_unique_price,priority:1"`
	FoundationID uint            `gorm:"not null;uniqueIndex:idx_unique_price,priority:2"`
	PeriodID     uint            `gorm:"not null;uniqueIndex:idx_unique_price,priority:3"`
	GroupID      uint            `gorm:"not null;uniqueIndex:idx_unique_price,priority:4"`
	Article      Article         `gorm:"foreignKey:ArticleID"`
	Foundation   Foundation      `gorm:"foreignKey:FoundationID"`
	Period       Period          `gorm:"foreignKey:PeriodID"`
	Group        Group           `gorm:"foreignKey:GroupID"`
	IsRemoved    bool            `gorm:"not null;default:false"`
}

type SellingPoint struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;not null"`
	Articles  []Article `gorm:"many2many:selling_point_articles;"`
	IsRemoved bool      `gorm:"not null;default:false"`
}

// PriceQuery selects the active prices a buyer is entitled to.
// A zero PointID skips the selling point membership check and an empty
// ArticleIDs matches every article.
type PriceQuery struct {
	BuyerID    uint
	PointID    uint
	ArticleIDs []uint
	At         time.Time
}

type PriceCandidate struct {
	PriceID      uint
	ArticleID    uint
	FoundationID uint
	PeriodID     uint
	GroupID      uint
	Amount       decimal.Decimal
	ArticleName  string
	CategoryID   uint
	Stock        int
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) FindSellingPointByID(ctx context.Context, id uint) (SellingPoint, error) {
	var point SellingPoint

	result := d.db.WithContext(ctx).Where("is_removed = ?", false).First(&point, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SellingPoint{}, ErrSellingPointNotFound
		}

		return SellingPoint{}, result.Error
	}

	return point, nil
}

// FindActivePrices returns every live price row matching the query in a
// single statement, so all rows come from the same snapshot. Rows are
// ordered by article, amount and id.
func (d *CatalogDAO) FindActivePrices(ctx context.Context, q PriceQuery) ([]PriceCandidate, error) {
	var candidates []PriceCandidate

	tx := d.db.WithContext(ctx).
		Table("prices AS p").
		Select(`p.id AS price_id, p.article_id, p.foundation_id, p.period_id, p.group_id, p.amount,
			a.name AS article_name, a.category_id, a.stock`).
		Joins("JOIN articles a ON a.id = p.article_id AND a.is_removed = ?", false).
		Joins("JOIN foundations f ON f.id = p.foundation_id AND f.is_removed = ?", false).
		Joins("JOIN periods pe ON pe.id = p.period_id").
		Joins("JOIN user_groups ug ON ug.group_id = p.group_id AND ug.user_id = ?", q.BuyerID).
		Joins("JOIN users u ON u.id = ug.user_id AND u.is_removed = ?", false).
		Where("p.is_removed = ?", false).
		Where("pe.starts_at <= ? AND (pe.ends_at IS NULL OR pe.ends_at >= ?)", q.At, q.At)

	if q.PointID != 0 {
		tx = tx.
			Joins("JOIN selling_point_articles spa ON spa.article_id = p.article_id AND spa.selling_point_id = ?", q.PointID).
			Joins("JOIN selling_points sp ON sp.id = spa.selling_point_id AND sp.is_removed = ?", false)
	}
	if len(q.ArticleIDs) > 0 {
		tx = tx.Where("p.article_id IN ?", q.ArticleIDs)
	}

	if err := tx.Order("p.article_id, p.amount, p.id").Scan(&candidates).Error; err != nil {
		return nil, err
	}

	return candidates, nil
}

func (d *CatalogDAO) InsertCategory(ctx context.Context, category Category) (Category, error) {
	if err := d.db.WithContext(ctx).Create(&category).Error; err != nil {
		return Category{}, err
	}
	return category, nil
}

func (d *CatalogDAO) InsertArticle(ctx context.Context, article Article) (Article, error) {
	if err := d.db.WithContext(ctx).Omit("Category").Create(&article).Error; err != nil {
		return Article{}, err
	}
	return article, nil
}

func (d *CatalogDAO) InsertFoundation(ctx context.Context, foundation Foundation) (Foundation, error) {
	if err := d.db.WithContext(ctx).Create(&foundation).Error; err != nil {
		return Foundation{}, err
	}
	return foundation, nil
}

func (d *CatalogDAO) InsertPeriod(ctx context.Context, period Period) (Period, error) {
	if err := d.db.WithContext(ctx).Create(&period).Error; err != nil {
		return Period{}, err
	}
	return period, nil
}

func (d *CatalogDAO) InsertGroup(ctx context.Context, group Group) (Group, error) {
	if err := d.db.WithContext(ctx).Create(&group).Error; err != nil {
		return Group{}, err
	}
	return group, nil
}

func (d *CatalogDAO) InsertPrice(ctx context.Context, price Price) (Price, error) {
	result := d.db.WithContext(ctx).Omit("Article", "Foundation", "Period", "Group").Create(&price)
	if result.Error != nil {
		return Price{}, translatePgError(result.Error)
	}
	return price, nil
}

// InsertSellingPoint creates the point and links it to the given articles.
func (d *CatalogDAO) InsertSellingPoint(ctx context.Context, point SellingPoint, articleIDs []uint) (SellingPoint, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Articles").Create(&point).Error; err != nil {
			return err
		}
		if len(articleIDs) == 0 {
			return nil
		}

		links := make([]map[string]interface{}, len(articleIDs))
		for i, id := range articleIDs {
			links[i] = map[string]interface{}{"selling_point_id": point.ID, "article_id": id}
		}
		return tx.Table("selling_point_articles").Create(&links).Error
	})
	if err != nil {
		return SellingPoint{}, err
	}

	return point, nil
}
