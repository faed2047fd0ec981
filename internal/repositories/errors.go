package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNameExists   = errors.New("account name already exists")
	ErrAccountInUse        = errors.New("account is referenced by transactions")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNameExists  = errors.New("category name already exists")
	ErrCategoryInUse       = errors.New("category is referenced by transactions")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
)

// isDuplicateKey matches unique violations from both drivers, whether or not
// gorm translated the error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
