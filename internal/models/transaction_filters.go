package models

import (
	"github.com/google/uuid"
)

// TransactionFilters narrows a user's transaction listing. Zero values mean "no filter".
type TransactionFilters struct {
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
	Kind        string
	Description string
	Year        int
	Month       int
	Limit       int
}
