package entities

import "time"

const (
	UserTypeRegular = "regular"
	UserTypeAdmin   = "admin"
)

// Account - учётная запись для входа в API.
type Account struct {
	ID           uint64     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	UserType     string     `json:"user_type"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `json:"date_joined"`
}

func (a *Account) IsAdmin() bool {
	return a.UserType == UserTypeAdmin || a.IsStaff || a.IsSuperuser
}
