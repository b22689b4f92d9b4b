package response

import (
	"github.com/buckutt/buckutt-api/internal/domain"
)

// User is the account as shown to terminals after a sale or a reload.
type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Nickname  string `json:"nickname,omitempty"`
	Email     string `json:"email"`
	Credit    string `json:"credit"`
}

func NewUser(u domain.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Credit:    u.Credit.StringFixed(2),
	}
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
