package seed

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixtures is a whole catalog and its users. Records reference each other by
// name so a file can be written by hand.
type Fixtures struct {
	Groups        []GroupFixture        `yaml:"groups"`
	Foundations   []FoundationFixture   `yaml:"foundations"`
	Periods       []PeriodFixture       `yaml:"periods"`
	Categories    []string              `yaml:"categories"`
	Articles      []ArticleFixture      `yaml:"articles"`
	Prices        []PriceFixture        `yaml:"prices"`
	SellingPoints []SellingPointFixture `yaml:"selling_points"`
	Users         []UserFixture         `yaml:"users"`
}

type GroupFixture struct {
	Name string `yaml:"name"`
}

type FoundationFixture struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website"`
	Mail    string `yaml:"mail"`
}

func (fd FoundationFixture) Validate() error {
	return validation.ValidateStruct(&fd,
		validation.Field(&fd.Name, validation.Required, validation.Length(1, 40)),
		validation.Field(&fd.Website, validation.Required, is.URL),
		validation.Field(&fd.Mail, validation.Required, is.Email),
	)
}

type PeriodFixture struct {
	Name     string     `yaml:"name"`
	StartsAt time.Time  `yaml:"starts_at"`
	EndsAt   *time.Time `yaml:"ends_at"`
}

type ArticleFixture struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Stock    int    `yaml:"stock"`
}

type PriceFixture struct {
	Article    string          `yaml:"article"`
	Foundation string          `yaml:"foundation"`
	Period     string          `yaml:"period"`
	Group      string          `yaml:"group"`
	Amount     decimal.Decimal `yaml:"amount"`
}

type SellingPointFixture struct {
	Name     string   `yaml:"name"`
	Articles []string `yaml:"articles"`
}

type UserFixture struct {
	Username  string          `yaml:"username"`
	Password  string          `yaml:"password"`
	FirstName string          `yaml:"first_name"`
	LastName  string          `yaml:"last_name"`
	Nickname  string          `yaml:"nickname"`
	Email     string          `yaml:"email"`
	Credit    decimal.Decimal `yaml:"credit"`
	Groups    []string        `yaml:"groups"`
}

func (u UserFixture) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&u.Email, is.Email),
	)
}

func Load(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("os.ReadFile -> %w", err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fixtures{}, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}

	return f, nil
}
