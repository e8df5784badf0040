package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/task"
	domain "github.com/wms/backend/internal/domain/warehouse"
)

// Repos provides access to every repository the task and warehouse services
// touch. All repositories returned share one underlying database transaction,
// so a pallet decrement and its ledger row commit or roll back together.
//
// Repos is a superset of task.CloseRepos; a Repos value can be handed
// directly to the close engine.
type Repos interface {
	Operations() task.OperationRepository
	ExternalSources() task.ExternalSourceRepository
	Content() task.ContentRepository
	Pallets() domain.PalletRepository
	PalletSources() domain.PalletSourceRepository
	PalletProducts() domain.PalletProductRepository
	CellStates() domain.CellStateRepository
	AggregationCodes() domain.AggregationCodeRepository
	Catalog() catalog.Lookup
	CellNeedsTaskFilter(ctx context.Context, cellID uuid.UUID) (bool, error)
}

// TransactionScope runs a function against transactional repositories.
// If the function returns an error the transaction is rolled back; there is
// no partial commit path.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repos) error) error
}
