package internal

import (
	"pricecompare/account-api/internal/account"

	"gorm.io/gorm"
)

// Deps holds everything the handlers need. The store handle is passed through
// here instead of living in a global so tests can swap in an in-memory one.
type Deps struct {
	DB      *gorm.DB
	Account *account.Service
}
