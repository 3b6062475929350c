package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role determines pricing tier and admin access.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleReseller Role = "reseller"
	RoleAdmin    Role = "admin"
)

// User represents a registered storefront customer. Balance is only mutated
// through conditional updates in the storage layer, never read-then-written.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	Balance      decimal.Decimal
	CreatedAt    time.Time
}
