package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

type mockOperationRepo struct {
	mock.Mock
}

func (m *mockOperationRepo) FindByGUID(ctx context.Context, guid uuid.UUID) (*Operation, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func (m *mockOperationRepo) FindByGUIDAndKind(ctx context.Context, guid uuid.UUID, kind Kind) (*Operation, error) {
	args := m.Called(ctx, guid, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func (m *mockOperationRepo) FindByExternalKey(ctx context.Context, kind Kind, externalKey string) (*Operation, error) {
	args := m.Called(ctx, kind, externalKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Operation), args.Error(1)
}

func (m *mockOperationRepo) List(ctx context.Context, kind Kind, filter shared.Filter) ([]Operation, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Operation), args.Error(1)
}

func (m *mockOperationRepo) Create(ctx context.Context, op *Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *mockOperationRepo) Save(ctx context.Context, op *Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *mockOperationRepo) NextNumber(ctx context.Context, kind Kind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOperationRepo) FindOpenChildren(ctx context.Context, parentGUID uuid.UUID) ([]Operation, error) {
	args := m.Called(ctx, parentGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Operation), args.Error(1)
}

func (m *mockOperationRepo) FindExchangeGroup(ctx context.Context, kind Kind, dayStart, dayEnd time.Time, line, batchNumber string) ([]Operation, error) {
	args := m.Called(ctx, kind, dayStart, dayEnd, line, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Operation), args.Error(1)
}

func (m *mockOperationRepo) MarkReadyToUnload(ctx context.Context, guids []uuid.UUID) error {
	args := m.Called(ctx, guids)
	return args.Error(0)
}

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) PalletsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationPallet, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OperationPallet), args.Error(1)
}

func (m *mockContentRepo) ProductsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationProduct, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OperationProduct), args.Error(1)
}

func (m *mockContentRepo) CellsOf(ctx context.Context, operationGUID uuid.UUID) ([]OperationCell, error) {
	args := m.Called(ctx, operationGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OperationCell), args.Error(1)
}

func (m *mockContentRepo) SavePallet(ctx context.Context, row *OperationPallet) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) SaveProduct(ctx context.Context, row *OperationProduct) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) SaveCell(ctx context.Context, row *OperationCell) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *mockContentRepo) FindProductsByExternalKeys(ctx context.Context, externalKeys []string) ([]OperationProduct, error) {
	args := m.Called(ctx, externalKeys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OperationProduct), args.Error(1)
}

func (m *mockContentRepo) FindPalletLink(ctx context.Context, operationGUID, palletGUID uuid.UUID) (*OperationPallet, error) {
	args := m.Called(ctx, operationGUID, palletGUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OperationPallet), args.Error(1)
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

type mockCellStateRepo struct {
	mock.Mock
}

func (m *mockCellStateRepo) Append(ctx context.Context, state *warehouse.StorageCellContentState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *mockCellStateRepo) CurrentPallet(ctx context.Context, cellID uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, cellID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uuid.UUID), args.Error(1)
}

type mockExchangeGate struct {
	mock.Mock
}

func (m *mockExchangeGate) Register(ctx context.Context, repos CloseRepos, op *Operation) (bool, error) {
	args := m.Called(ctx, repos, op)
	return args.Bool(0), args.Error(1)
}

// stubCloseRepos bundles the repository mocks behind the CloseRepos surface
type stubCloseRepos struct {
	ops         *mockOperationRepo
	content     *mockContentRepo
	pallets     *mockPalletRepo
	cellStates  *mockCellStateRepo
	needsFilter map[uuid.UUID]bool
}

func newStubCloseRepos() *stubCloseRepos {
	return &stubCloseRepos{
		ops:         new(mockOperationRepo),
		content:     new(mockContentRepo),
		pallets:     new(mockPalletRepo),
		cellStates:  new(mockCellStateRepo),
		needsFilter: make(map[uuid.UUID]bool),
	}
}

func (r *stubCloseRepos) Operations() OperationRepository { return r.ops }
func (r *stubCloseRepos) Content() ContentRepository { return r.content }
func (r *stubCloseRepos) Pallets() warehouse.PalletRepository { return r.pallets }
func (r *stubCloseRepos) CellStates() warehouse.CellStateRepository { return r.cellStates }

func (r *stubCloseRepos) CellNeedsTaskFilter(_ context.Context, cellID uuid.UUID) (bool, error) {
	return r.needsFilter[cellID], nil
}

func TestCloser_Close_AlreadyClosed(t *testing.T) {
	repos := newStubCloseRepos()
	gate := new(mockExchangeGate)
	closer := NewCloser(gate)

	op := NewOperation(KindShipment)
	op.Close()

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	repos.ops.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	gate.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloser_Close_NonGatedKind(t *testing.T) {
	repos := newStubCloseRepos()
	gate := new(mockExchangeGate)
	closer := NewCloser(gate)

	op := NewOperation(KindShipment)
	repos.ops.On("Save", mock.Anything, op).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	assert.True(t, op.IsClosed())
	assert.True(t, op.ReadyToUnload)
	repos.ops.AssertExpectations(t)
	gate.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloser_Close_GatedKindGoesThroughGate(t *testing.T) {
	repos := newStubCloseRepos()
	gate := new(mockExchangeGate)
	closer := NewCloser(gate)

	op := NewOperation(KindMarking)
	repos.ops.On("Save", mock.Anything, op).Return(nil)
	gate.On("Register", mock.Anything, repos, op).Return(false, nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	assert.True(t, op.IsClosed())
	assert.False(t, op.ReadyToUnload, "export eligibility is the gate's decision")
	repos.ops.AssertExpectations(t)
	gate.AssertExpectations(t)
}

func TestCloser_Close_PlacementRecordsCellStates(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	op := NewOperation(KindPlacementToCells)
	palletGUID := uuid.New()
	sourceCell := uuid.New()
	destCell := uuid.New()

	cells := []OperationCell{
		{PalletGUID: &palletGUID, SourceCellID: &sourceCell, DestinationCellID: &destCell},
		{PalletGUID: &palletGUID, SourceCellID: &sourceCell}, // no destination, settles at source
		{SourceCellID: &sourceCell},                          // no pallet, skipped
	}
	repos.content.On("CellsOf", mock.Anything, op.GUID).Return(cells, nil)
	repos.cellStates.On("Append", mock.Anything, mock.MatchedBy(func(s *warehouse.StorageCellContentState) bool {
		return s.CellID == destCell && s.PalletGUID == palletGUID
	})).Return(nil).Once()
	repos.cellStates.On("Append", mock.Anything, mock.MatchedBy(func(s *warehouse.StorageCellContentState) bool {
		return s.CellID == sourceCell && s.PalletGUID == palletGUID
	})).Return(nil).Once()
	repos.ops.On("Save", mock.Anything, op).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	assert.True(t, op.ReadyToUnload)
	repos.content.AssertExpectations(t)
	repos.cellStates.AssertExpectations(t)
}

func TestCloser_Close_CollectCascadesIntoParent(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	parent := NewOperation(KindShipment)
	op := NewOperation(KindPalletCollect)
	op.CollectKind = CollectShipment
	op.ParentTaskID = &parent.GUID

	repos.ops.On("Save", mock.Anything, op).Return(nil)
	repos.ops.On("FindOpenChildren", mock.Anything, parent.GUID).Return([]Operation{*op}, nil)
	repos.ops.On("FindByGUIDAndKind", mock.Anything, parent.GUID, KindShipment).Return(parent, nil)
	repos.ops.On("Save", mock.Anything, parent).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	assert.True(t, op.IsClosed())
	assert.True(t, parent.IsClosed())
	assert.True(t, parent.ReadyToUnload)
	repos.ops.AssertExpectations(t)
}

func TestCloser_Close_NoCascadeWhileSiblingOpen(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	parentGUID := uuid.New()
	op := NewOperation(KindPalletCollect)
	op.CollectKind = CollectSelection
	op.ParentTaskID = &parentGUID

	sibling := NewOperation(KindPalletCollect)

	repos.ops.On("Save", mock.Anything, op).Return(nil)
	repos.ops.On("FindOpenChildren", mock.Anything, parentGUID).Return([]Operation{*op, *sibling}, nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	repos.ops.AssertNotCalled(t, "FindByGUIDAndKind", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloser_Close_NoCascadeForUnmappedCollectKind(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	parentGUID := uuid.New()
	op := NewOperation(KindPalletCollect)
	op.CollectKind = CollectInventory
	op.ParentTaskID = &parentGUID

	repos.ops.On("Save", mock.Anything, op).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	repos.ops.AssertNotCalled(t, "FindOpenChildren", mock.Anything, mock.Anything)
}

func TestCloser_Close_MissingParentIsNotAFault(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	parentGUID := uuid.New()
	op := NewOperation(KindPalletCollect)
	op.CollectKind = CollectShipment
	op.ParentTaskID = &parentGUID

	repos.ops.On("Save", mock.Anything, op).Return(nil)
	repos.ops.On("FindOpenChildren", mock.Anything, parentGUID).Return([]Operation{*op}, nil)
	repos.ops.On("FindByGUIDAndKind", mock.Anything, parentGUID, KindShipment).Return(nil, shared.ErrNotFound)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)
	assert.True(t, op.IsClosed())
}

func TestCloser_Close_SelectionStampsTaskKeys(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	op := NewOperation(KindSelection)
	op.ExternalSource = NewExternalSource("selection doc", "SEL-KEY-7", "7", time.Now())

	filteredCell := uuid.New()
	plainCell := uuid.New()
	repos.needsFilter[filteredCell] = true

	stamped := warehouse.NewPallet("PAL-STAMP")
	other := warehouse.NewPallet("PAL-PLAIN")

	cells := []OperationCell{
		{PalletGUID: &stamped.GUID, DestinationCellID: &filteredCell},
		{PalletGUID: &other.GUID, DestinationCellID: &plainCell},
	}
	repos.content.On("CellsOf", mock.Anything, op.GUID).Return(cells, nil)
	repos.pallets.On("FindByGUID", mock.Anything, stamped.GUID).Return(stamped, nil)
	repos.pallets.On("Save", mock.Anything, stamped).Return(nil)
	repos.ops.On("Save", mock.Anything, op).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	assert.Equal(t, "SEL-KEY-7", stamped.ExternalTaskKey)
	assert.Empty(t, other.ExternalTaskKey)
	repos.pallets.AssertExpectations(t)
}

func TestCloser_Close_SelectionWithoutSourceSkipsStamping(t *testing.T) {
	repos := newStubCloseRepos()
	closer := NewCloser(new(mockExchangeGate))

	op := NewOperation(KindSelection)
	repos.ops.On("Save", mock.Anything, op).Return(nil)

	err := closer.Close(context.Background(), repos, op)
	require.NoError(t, err)

	repos.content.AssertNotCalled(t, "CellsOf", mock.Anything, mock.Anything)
}
