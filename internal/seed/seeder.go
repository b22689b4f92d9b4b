package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/buckutt/buckutt-api/internal/domain"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
)

type CatalogWriter interface {
	InsertCategory(ctx context.Context, category dao.Category) (dao.Category, error)
	InsertArticle(ctx context.Context, article dao.Article) (dao.Article, error)
	InsertFoundation(ctx context.Context, foundation dao.Foundation) (dao.Foundation, error)
	InsertPeriod(ctx context.Context, period dao.Period) (dao.Period, error)
	InsertGroup(ctx context.Context, group dao.Group) (dao.Group, error)
	InsertPrice(ctx context.Context, price dao.Price) (dao.Price, error)
	InsertSellingPoint(ctx context.Context, point dao.SellingPoint, articleIDs []uint) (dao.SellingPoint, error)
}

type UserWriter interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
}

type Seeder struct {
	catalog CatalogWriter
	users   UserWriter
	cost    int

	groups      map[string]uint
	foundations map[string]uint
	periods     map[string]uint
	categories  map[string]uint
	articles    map[string]uint
}

func NewSeeder(catalog CatalogWriter, users UserWriter) *Seeder {
	return &Seeder{
		catalog: catalog,
		users:   users,
		cost:    bcrypt.DefaultCost,
	}
}

// Apply inserts f in dependency order and stops at the first failure.
func (s *Seeder) Apply(ctx context.Context, f Fixtures) error {
	s.groups = make(map[string]uint)
	s.foundations = make(map[string]uint)
	s.periods = make(map[string]uint)
	s.categories = make(map[string]uint)
	s.articles = make(map[string]uint)

	steps := []struct {
		name string
		run  func(context.Context, Fixtures) error
	}{
		{"groups", s.applyGroups},
		{"foundations", s.applyFoundations},
		{"periods", s.applyPeriods},
		{"categories", s.applyCategories},
		{"articles", s.applyArticles},
		{"prices", s.applyPrices},
		{"selling points", s.applySellingPoints},
		{"users", s.applyUsers},
	}
	for _, step := range steps {
		if err := step.run(ctx, f); err != nil {
			return fmt.Errorf("seeding %s -> %w", step.name, err)
		}
	}

	zap.L().Info("fixtures loaded",
		zap.Int("articles", len(f.Articles)),
		zap.Int("prices", len(f.Prices)),
		zap.Int("users", len(f.Users)),
	)

	return nil
}

func (s *Seeder) applyGroups(ctx context.Context, f Fixtures) error {
	for _, g := range f.Groups {
		created, err := s.catalog.InsertGroup(ctx, dao.Group{Name: g.Name})
		if err != nil {
			return fmt.Errorf("%q: %w", g.Name, err)
		}
		s.groups[g.Name] = created.ID
	}
	return nil
}

func (s *Seeder) applyFoundations(ctx context.Context, f Fixtures) error {
	for _, fd := range f.Foundations {
		if err := fd.Validate(); err != nil {
			return fmt.Errorf("%q: %w", fd.Name, err)
		}
		created, err := s.catalog.InsertFoundation(ctx, dao.Foundation{Name: fd.Name, Website: fd.Website, Mail: fd.Mail})
		if err != nil {
			return fmt.Errorf("%q: %w", fd.Name, err)
		}
		s.foundations[fd.Name] = created.ID
	}
	return nil
}

func (s *Seeder) applyPeriods(ctx context.Context, f Fixtures) error {
	for _, p := range f.Periods {
		if p.EndsAt != nil && p.EndsAt.Before(p.StartsAt) {
			return fmt.Errorf("%q ends before it starts", p.Name)
		}
		created, err := s.catalog.InsertPeriod(ctx, dao.Period{Name: p.Name, StartsAt: p.StartsAt, EndsAt: p.EndsAt})
		if err != nil {
			return fmt.Errorf("%q: %w", p.Name, err)
		}
		s.periods[p.Name] = created.ID
	}
	return nil
}

func (s *Seeder) applyCategories(ctx context.Context, f Fixtures) error {
	for _, name := range f.Categories {
		created, err := s.catalog.InsertCategory(ctx, dao.Category{Name: name})
		if err != nil {
			return fmt.Errorf("%q: %w", name, err)
		}
		s.categories[name] = created.ID
	}
	return nil
}

func (s *Seeder) applyArticles(ctx context.Context, f Fixtures) error {
	for _, a := range f.Articles {
		categoryID, err := lookup(s.categories, "category", a.Category)
		if err != nil {
			return err
		}
		created, err := s.catalog.InsertArticle(ctx, dao.Article{Name: a.Name, CategoryID: categoryID, Stock: a.Stock})
		if err != nil {
			return fmt.Errorf("%q: %w", a.Name, err)
		}
		s.articles[a.Name] = created.ID
	}
	return nil
}

func (s *Seeder) applyPrices(ctx context.Context, f Fixtures) error {
	for _, p := range f.Prices {
		if p.Amount.IsNegative() || !domain.IsCurrencyAmount(p.Amount) {
			return fmt.Errorf("%s: invalid amount %s", p.Article, p.Amount)
		}

		price := dao.Price{Amount: p.Amount}
		var err error
		if price.ArticleID, err = lookup(s.articles, "article", p.Article); err != nil {
			return err
		}
		if price.FoundationID, err = lookup(s.foundations, "foundation", p.Foundation); err != nil {
			return err
		}
		if price.PeriodID, err = lookup(s.periods, "period", p.Period); err != nil {
			return err
		}
		if price.GroupID, err = lookup(s.groups, "group", p.Group); err != nil {
			return err
		}

		if _, err = s.catalog.InsertPrice(ctx, price); err != nil {
			return fmt.Errorf("%s/%s/%s/%s: %w", p.Article, p.Foundation, p.Period, p.Group, err)
		}
	}
	return nil
}

func (s *Seeder) applySellingPoints(ctx context.Context, f Fixtures) error {
	for _, sp := range f.SellingPoints {
		ids := make([]uint, len(sp.Articles))
		for i, name := range sp.Articles {
			id, err := lookup(s.articles, "article", name)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		if _, err := s.catalog.InsertSellingPoint(ctx, dao.SellingPoint{Name: sp.Name}, ids); err != nil {
			return fmt.Errorf("%q: %w", sp.Name, err)
		}
	}
	return nil
}

func (s *Seeder) applyUsers(ctx context.Context, f Fixtures) error {
	for _, u := range f.Users {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("%q: %w", u.Username, err)
		}
		if err := ValidatePassword(u.Password); err != nil {
			return fmt.Errorf("%q: %w", u.Username, err)
		}
		if u.Credit.IsNegative() || !domain.IsCurrencyAmount(u.Credit) {
			return fmt.Errorf("%q: invalid credit %s", u.Username, u.Credit)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
		}

		groups := make([]dao.Group, len(u.Groups))
		for i, name := range u.Groups {
			id, err := lookup(s.groups, "group", name)
			if err != nil {
				return err
			}
			groups[i] = dao.Group{ID: id, Name: name}
		}

		_, err = s.users.Insert(ctx, dao.User{
			Username:  u.Username,
			Password:  string(hash),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Nickname:  u.Nickname,
			Email:     u.Email,
			Credit:    u.Credit,
			Groups:    groups,
		})
		if err != nil {
			return fmt.Errorf("%q: %w", u.Username, err)
		}
	}
	return nil
}

func lookup(ids map[string]uint, kind, name string) (uint, error) {
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", kind, name)
	}
	return id, nil
}
