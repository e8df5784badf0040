package persistence

import (
	"context"

	"github.com/google/uuid"
	appwh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/task"
	"github.com/wms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares one transaction, so a
// pallet decrement, its ledger row and the task state change commit or roll
// back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appwh.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepos{tx: tx})
	})
}

// gormRepos provides access to all repositories within one transaction
type gormRepos struct {
	tx *gorm.DB
}

func (r *gormRepos) Operations() task.OperationRepository {
	return NewGormOperationRepository(r.tx)
}

func (r *gormRepos) ExternalSources() task.ExternalSourceRepository {
	return NewGormExternalSourceRepository(r.tx)
}

func (r *gormRepos) Content() task.ContentRepository {
	return NewGormContentRepository(r.tx)
}

func (r *gormRepos) Pallets() warehouse.PalletRepository {
	return NewGormPalletRepository(r.tx)
}

func (r *gormRepos) PalletSources() warehouse.PalletSourceRepository {
	return NewGormPalletSourceRepository(r.tx)
}

func (r *gormRepos) PalletProducts() warehouse.PalletProductRepository {
	return NewGormPalletProductRepository(r.tx)
}

func (r *gormRepos) CellStates() warehouse.CellStateRepository {
	return NewGormCellStateRepository(r.tx)
}

func (r *gormRepos) AggregationCodes() warehouse.AggregationCodeRepository {
	return NewGormAggregationCodeRepository(r.tx)
}

func (r *gormRepos) Catalog() catalog.Lookup {
	return NewGormCatalogRepository(r.tx)
}

func (r *gormRepos) CellNeedsTaskFilter(ctx context.Context, cellID uuid.UUID) (bool, error) {
	return NewGormCatalogRepository(r.tx).CellNeedsTaskFilter(ctx, cellID)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appwh.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepos implements Repos
var _ appwh.Repos = (*gormRepos)(nil)
