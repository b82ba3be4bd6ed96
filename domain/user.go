package domain

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	StatusActive = "active"
)

// User is the locally known face of an externally authenticated identity.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

// Identity is what the credential service vouches for on every request.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// DisplayName falls back to the user id when no username claim was supplied.
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.UserID
}
