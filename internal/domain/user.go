package domain

import "time"

type Role string

const (
	RoleHQAdmin   Role = "HQ_ADMIN"
	RoleJVPartner Role = "JV_PARTNER"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	JvID         *int64    `json:"jvId"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type JV struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Actor is the authenticated caller of an engine operation, as carried in the
// request token. JvID is 0 for HQ admins.
type Actor struct {
	UserID int64
	Email  string
	Role   Role
	JvID   int64
}
