package database

import (
	"fmt"
	"testing"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testTables = []string{
	"budgets",
	"transactions",
	"categories",
	"accounts",
}

// SetupTestDB opens a migrated in-memory sqlite database. The pool is
// limited to one connection because every new sqlite :memory: connection
// would otherwise see an empty database.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			Driver:         DriverSQLite,
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = testDB.Close()
	})

	return testDB
}

func CreateTestAccount(t *testing.T, db *DB, userID uuid.UUID, name string, initial decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:         userID,
		Name:           name,
		AccountType:    models.AccountTypeChecking,
		InitialBalance: initial,
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

func CreateTestCategory(t *testing.T, db *DB, userID uuid.UUID, name, kind string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Kind:   kind,
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	return category
}

func CreateTestTransaction(t *testing.T, db *DB, account *models.Account, category *models.Category, kind string, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      account.UserID,
		AccountID:   account.ID,
		CategoryID:  category.ID,
		Kind:        kind,
		Amount:      amount,
		Date:        models.TruncateToDay(date),
		Description: fmt.Sprintf("%s %s", category.Name, amount.String()),
	}

	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return transaction
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	for _, table := range testTables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
