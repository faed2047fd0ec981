package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryKindIncome  = "INCOME"
	CategoryKindExpense = "EXPENSE"

	// DefaultCategoryName is the suggestion returned when nothing better is known.
	DefaultCategoryName = "Other"

	maxCategoryNameLength = 100
)

var (
	ErrInvalidCategoryKind = errors.New("invalid category kind")
	ErrCategoryNameMissing = errors.New("category name is required")
	ErrCategoryNameTooLong = errors.New("category name is too long")
)

// Category groups transactions for a single user.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	Kind      string    `gorm:"type:varchar(20);not null" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

// BeforeUpdate hook for Category
func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

// Validate validates the category fields
func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrCategoryNameMissing
	}
	if len(name) > maxCategoryNameLength {
		return ErrCategoryNameTooLong
	}

	if !IsValidCategoryKind(c.Kind) {
		return ErrInvalidCategoryKind
	}

	return nil
}

// TableName returns the table name for Category
func (c *Category) TableName() string {
	return "categories"
}

// IsExpense reports whether the category tracks spending.
func (c *Category) IsExpense() bool {
	return c.Kind == CategoryKindExpense
}

// IsValidCategoryKind checks if the category kind is valid
func IsValidCategoryKind(kind string) bool {
	switch kind {
	case CategoryKindIncome, CategoryKindExpense:
		return true
	default:
		return false
	}
}
