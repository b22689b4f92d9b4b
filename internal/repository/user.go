package repository

import (
	"context"
	"fmt"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
)

var (
	ErrUsernameExists = dao.ErrUsernameExists
	ErrUserNotFound   = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByUsername(ctx context.Context, username string) (dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return daoToDomainUser(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return daoToDomainUser(found), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return daoToDomainUser(found), nil
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	groups := make([]dao.Group, len(u.GroupIDs))
	for i, id := range u.GroupIDs {
		groups[i] = dao.Group{ID: id}
	}

	return dao.User{
		ID:          u.ID,
		Username:    u.Username,
		Password:    u.Password,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Nickname:    u.Nickname,
		Email:       u.Email,
		Credit:      u.Credit,
		Groups:      groups,
		IsTemporary: u.IsTemporary,
		IsRemoved:   u.IsRemoved,
	}
}

func daoToDomainUser(u dao.User) domain.User {
	groupIDs := make([]uint, len(u.Groups))
	for i, g := range u.Groups {
		groupIDs[i] = g.ID
	}

	return domain.User{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Nickname:    u.Nickname,
		Email:       u.Email,
		Password:    u.Password,
		Credit:      u.Credit,
		GroupIDs:    groupIDs,
		IsTemporary: u.IsTemporary,
		IsRemoved:   u.IsRemoved,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
