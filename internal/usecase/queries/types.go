package queries

import (
	"storefront/internal/pkg/errs"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

var (
	ErrInvalidCursor = errs.New("invalid pagination cursor")
)
