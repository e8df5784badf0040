package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"github.com/wms/backend/internal/domain/warehouse"
)

type mockOperationRepo struct {
	mock.Mock
}

func (m *mockOperationRepo) FindByGUID(ctx context.Context, guid uuid.UUID) (*task.Operation, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Operation), args.Error(1)
}

func (m *mockOperationRepo) FindByGUIDAndKind(ctx context.Context, guid uuid.UUID, kind task.Kind) (*task.Operation, error) {
	args := m.Called(ctx, guid, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Operation), args.Error(1)
}

func (m *mockOperationRepo) FindByExternalKey(ctx context.Context, kind task.Kind, externalKey string) (*task.Operation, error) {
	args := m.Called(ctx, kind, externalKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Operation), args.Error(1)
}

func (m *mockOperationRepo) List(ctx context.Context, kind task.Kind, filter shared.Filter) ([]task.Operation, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Operation), args.Error(1)
}

func (m *mockOperationRepo) Create(ctx context.Context, op *task.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *mockOperationRepo) Save(ctx context.Context, op *task.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *mockOperationRepo) NextNumber(ctx context.Context, kind task.Kind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOperationRepo) FindOpenChildren(ctx context.Context, parentGUID uuid.UUID) ([]task.Operation, error) {
	args := m.Called(ctx, parentGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Operation), args.Error(1)
}

func (m *mockOperationRepo) FindExchangeGroup(ctx context.Context, kind task.Kind, dayStart, dayEnd time.Time, line, batchNumber string) ([]task.Operation, error) {
	args := m.Called(ctx, kind, dayStart, dayEnd, line, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Operation), args.Error(1)
}

func (m *mockOperationRepo) MarkReadyToUnload(ctx context.Context, guids []uuid.UUID) error {
	args := m.Called(ctx, guids)
	return args.Error(0)
}

type mockExternalSourceRepo struct {
	mock.Mock
}

func (m *mockExternalSourceRepo) FindByKey(ctx context.Context, externalKey string) (*task.ExternalSource, error) {
	args := m.Called(ctx, externalKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.ExternalSource), args.Error(1)
}

func (m *mockExternalSourceRepo) GetOrCreate(ctx context.Context, name, externalKey, number string, date time.Time) (*task.ExternalSource, error) {
	args := m.Called(ctx, name, externalKey, number, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.ExternalSource), args.Error(1)
}

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) PalletsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationPallet, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.OperationPallet), args.Error(1)
}

func (m *mockContentRepo) ProductsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationProduct, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.OperationProduct), args.Error(1)
}

func (m *mockContentRepo) CellsOf(ctx context.Context, operationGUID uuid.UUID) ([]task.OperationCell, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.OperationCell), args.Error(1)
}

func (m *mockContentRepo) SavePallet(ctx context.Context, row *task.OperationPallet) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) SaveProduct(ctx context.Context, row *task.OperationProduct) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) SaveCell(ctx context.Context, row *task.OperationCell) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) FindProductsByExternalKeys(ctx context.Context, externalKeys []string) ([]task.OperationProduct, error) {
	args := m.Called(ctx, externalKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.OperationProduct), args.Error(1)
}

func (m *mockContentRepo) FindPalletLink(ctx context.Context, operationGUID, palletGUID uuid.UUID) (*task.OperationPallet, error) {
	args := m.Called(ctx, operationGUID, palletGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.OperationPallet), args.Error(1)
}

type mockCatalogLookup struct {
	mock.Mock
}

func (m *mockCatalogLookup) ProductByExternalKey(ctx context.Context, key string) (*catalog.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockCatalogLookup) StorageByExternalKey(ctx context.Context, key string) (*catalog.Storage, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Storage), args.Error(1)
}

func (m *mockCatalogLookup) CellByExternalKey(ctx context.Context, key string) (*catalog.StorageCell, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StorageCell), args.Error(1)
}

func (m *mockCatalogLookup) ShiftByExternalKey(ctx context.Context, key string) (*catalog.Shift, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Shift), args.Error(1)
}

func (m *mockCatalogLookup) ProductionShopByExternalKey(ctx context.Context, key string) (*catalog.ProductionShop, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductionShop), args.Error(1)
}

func (m *mockCatalogLookup) DirectionByExternalKey(ctx context.Context, key string) (*catalog.Direction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Direction), args.Error(1)
}

func (m *mockCatalogLookup) ClientByExternalKey(ctx context.Context, key string) (*catalog.Client, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Client), args.Error(1)
}

type mockPalletRepo struct {
	mock.Mock
}

func (m *mockPalletRepo) FindByGUID(ctx context.Context, guid uuid.UUID) (*warehouse.Pallet, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Pallet), args.Error(1)
}

func (m *mockPalletRepo) FindByCode(ctx context.Context, code string) (*warehouse.Pallet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Pallet), args.Error(1)
}

func (m *mockPalletRepo) FindByExternalKey(ctx context.Context, externalKey string) (*warehouse.Pallet, error) {
	args := m.Called(ctx, externalKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Pallet), args.Error(1)
}

func (m *mockPalletRepo) FindByCodeForUpdate(ctx context.Context, code string) (*warehouse.Pallet, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Pallet), args.Error(1)
}

func (m *mockPalletRepo) FindByGUIDForUpdate(ctx context.Context, guid uuid.UUID) (*warehouse.Pallet, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Pallet), args.Error(1)
}

func (m *mockPalletRepo) Create(ctx context.Context, pallet *warehouse.Pallet) error {
	args := m.Called(ctx, pallet)
	return args.Error(0)
}

func (m *mockPalletRepo) Save(ctx context.Context, pallet *warehouse.Pallet) error {
	args := m.Called(ctx, pallet)
	return args.Error(0)
}

type mockPalletSourceRepo struct {
	mock.Mock
}

func (m *mockPalletSourceRepo) Append(ctx context.Context, row *warehouse.PalletSource) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockPalletSourceRepo) FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]warehouse.PalletSource, error) {
	args := m.Called(ctx, palletGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]warehouse.PalletSource), args.Error(1)
}

func (m *mockPalletSourceRepo) SumCountByExternalKeys(ctx context.Context, externalKeys []string) (map[string]int, error) {
	args := m.Called(ctx, externalKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type mockAggregationCodeRepo struct {
	mock.Mock
}

func (m *mockAggregationCodeRepo) Attach(ctx context.Context, palletGUID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, palletGUID, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockAggregationCodeRepo) FindByPallet(ctx context.Context, palletGUID uuid.UUID) ([]warehouse.AggregationCode, error) {
	args := m.Called(ctx, palletGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]warehouse.AggregationCode), args.Error(1)
}

// stubRepos bundles the repository mocks behind the Repos surface. Only the
// fields a test sets are ever touched.
type stubRepos struct {
	ops           *mockOperationRepo
	sources       *mockExternalSourceRepo
	content       *mockContentRepo
	pallets       *mockPalletRepo
	palletSources *mockPalletSourceRepo
	codes         *mockAggregationCodeRepo
	catalog       *mockCatalogLookup
	needsFilter   map[uuid.UUID]bool
}

func newStubRepos() *stubRepos {
	return &stubRepos{
		ops:           new(mockOperationRepo),
		sources:       new(mockExternalSourceRepo),
		content:       new(mockContentRepo),
		pallets:       new(mockPalletRepo),
		palletSources: new(mockPalletSourceRepo),
		codes:         new(mockAggregationCodeRepo),
		catalog:       new(mockCatalogLookup),
		needsFilter:   make(map[uuid.UUID]bool),
	}
}

func (r *stubRepos) Operations() task.OperationRepository { return r.ops }
func (r *stubRepos) ExternalSources() task.ExternalSourceRepository { return r.sources }
func (r *stubRepos) Content() task.ContentRepository { return r.content }
func (r *stubRepos) Pallets() warehouse.PalletRepository { return r.pallets }
func (r *stubRepos) PalletSources() warehouse.PalletSourceRepository { return r.palletSources }
func (r *stubRepos) PalletProducts() warehouse.PalletProductRepository {
	return nil
}
func (r *stubRepos) CellStates() warehouse.CellStateRepository { return nil }
func (r *stubRepos) AggregationCodes() warehouse.AggregationCodeRepository {
	return r.codes
}
func (r *stubRepos) Catalog() catalog.Lookup { return r.catalog }

func (r *stubRepos) CellNeedsTaskFilter(_ context.Context, cellID uuid.UUID) (bool, error) {
	return r.needsFilter[cellID], nil
}

// stubScope hands the stubbed repositories straight to the callback
type stubScope struct {
	repos wh.Repos
}

func (s *stubScope) Execute(_ context.Context, fn func(repos wh.Repos) error) error {
	return fn(s.repos)
}

var _ wh.Repos = (*stubRepos)(nil)
var _ wh.TransactionScope = (*stubScope)(nil)
