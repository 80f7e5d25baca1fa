package model

import "time"

// Role is a user's permission group.
type Role string

const (
	RoleOwner           Role = "owner"
	RoleAdmin           Role = "admin"
	RoleWarehouse       Role = "warehouse"
	RoleWarehouseWorker Role = "warehouse_worker"
	RoleDelivery        Role = "delivery"
)

// Roles lists every role, most privileged first.
var Roles = []Role{
	RoleOwner, RoleAdmin, RoleWarehouse, RoleWarehouseWorker, RoleDelivery,
}

// User is a console account.
type User struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"date_joined"`
}

// DisplayName returns the full name when known, else the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UserInput is the payload for creating a user.
type UserInput struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=64"`
	FullName string `json:"full_name" validate:"max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     Role   `json:"role" validate:"required,oneof=owner admin warehouse warehouse_worker delivery"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
