package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUsernameExists = errors.New("user already exists")
	ErrUserNotFound   = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"size:150;unique;not null"`
	Password string `gorm:"not null"`
	Pin      string `gorm:"size:50"`

	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Nickname  string `gorm:"size:50"`
	Email     string `gorm:"size:254"`

	Credit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;check:chk_users_credit,credit >= 0"`
	Groups []Group         `gorm:"many2many:user_groups;"`

	IsTemporary bool `gorm:"not null;default:false"`
	IsRemoved   bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Insert creates the user and its group memberships. Groups must already exist.
func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Omit("Groups.*").Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_username"`) {
			return User{}, ErrUsernameExists
		}

		return User{}, translatePgError(result.Error)
	}

	return user, nil
}

// FindByID returns a live user with its groups preloaded.
func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		Preload("Groups").
		Where("is_removed = ?", false).
		First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		Preload("Groups").
		Where("is_removed = ?", false).
		First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// lockByID reads a live user row with FOR UPDATE inside tx. Concurrent
// writers on the same user queue behind this lock until tx ends.
func lockByID(tx *gorm.DB, id uint) (User, error) {
	var user User

	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_removed = ?", false).
		First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}
