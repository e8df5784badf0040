package warehouse

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	domain "github.com/wms/backend/internal/domain/warehouse"
	"go.uber.org/zap"
)

// PalletService handles pallet creation, splitting and withdrawal
// bookkeeping. Methods taking a Repos run inside the caller's transaction;
// the Tx variants open their own.
type PalletService struct {
	scope  TransactionScope
	closer *task.Closer
	logger *zap.Logger
}

// NewPalletService creates a new PalletService
func NewPalletService(scope TransactionScope, closer *task.Closer, logger *zap.Logger) *PalletService {
	return &PalletService{
		scope:  scope,
		closer: closer,
		logger: logger.Named("pallet"),
	}
}

// CreatePalletsTx creates pallets in a single transaction
func (s *PalletService) CreatePalletsTx(ctx context.Context, items []PalletItem, caller *uuid.UUID) ([]PalletView, error) {
	var views []PalletView
	err := s.scope.Execute(ctx, func(repos Repos) error {
		pallets, err := s.CreatePallets(ctx, repos, items, caller, nil)
		if err != nil {
			return err
		}
		views = make([]PalletView, 0, len(pallets))
		for i := range pallets {
			views = append(views, ToPalletView(pallets[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// CreatePallets upserts pallets by code (falling back to external key) and
// returns them in input order. Nested product lines and aggregation codes are
// only populated on first creation; a code already attached to any pallet is
// skipped, which makes re-submission safe.
func (s *PalletService) CreatePallets(ctx context.Context, repos Repos, items []PalletItem, caller *uuid.UUID, parentTask *task.Operation) ([]*domain.Pallet, error) {
	result := make([]*domain.Pallet, 0, len(items))
	for i := range items {
		pallet, err := s.upsertPallet(ctx, repos, &items[i], parentTask)
		if err != nil {
			return nil, err
		}
		result = append(result, pallet)
	}
	return result, nil
}

func (s *PalletService) upsertPallet(ctx context.Context, repos Repos, item *PalletItem, parentTask *task.Operation) (*domain.Pallet, error) {
	existing, err := s.findExisting(ctx, repos, item)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	pallet := domain.NewPallet(item.Code)
	pallet.ExternalKey = item.ExternalKey
	pallet.Weight = item.Weight
	pallet.ContentCount = item.ContentCount
	pallet.BatchNumber = item.BatchNumber
	pallet.ProductionDate = item.ProductionDate
	pallet.Series = item.Series
	if item.PalletType != "" {
		pallet.PalletType = item.PalletType
	}
	if parentTask != nil {
		pallet.CollectTaskID = &parentTask.GUID
	}
	if err := s.resolveLinks(ctx, repos, pallet, item); err != nil {
		return nil, err
	}
	if err := repos.Pallets().Create(ctx, pallet); err != nil {
		return nil, err
	}

	for j := range item.Products {
		line := &domain.PalletProduct{
			BaseEntity:  shared.NewBaseEntity(),
			PalletGUID:  pallet.GUID,
			Count:       item.Products[j].Count,
			BatchNumber: item.Products[j].BatchNumber,
			ExternalKey: item.Products[j].ExternalKey,
		}
		if key := item.Products[j].ProductKey; key != "" {
			product, err := repos.Catalog().ProductByExternalKey(ctx, key)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if product != nil {
				line.ProductID = &product.GUID
			}
		}
		if err := repos.PalletProducts().Save(ctx, line); err != nil {
			return nil, err
		}
	}

	for _, code := range item.Codes {
		if _, err := repos.AggregationCodes().Attach(ctx, pallet.GUID, code); err != nil {
			return nil, err
		}
	}

	return pallet, nil
}

// findExisting prefers the internal code, then the external key
func (s *PalletService) findExisting(ctx context.Context, repos Repos, item *PalletItem) (*domain.Pallet, error) {
	if item.Code != "" {
		pallet, err := repos.Pallets().FindByCode(ctx, item.Code)
		if err == nil {
			return pallet, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if item.ExternalKey != "" {
		pallet, err := repos.Pallets().FindByExternalKey(ctx, item.ExternalKey)
		if err == nil {
			return pallet, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func (s *PalletService) resolveLinks(ctx context.Context, repos Repos, pallet *domain.Pallet, item *PalletItem) error {
	lookup := repos.Catalog()
	if item.ProductKey != "" {
		product, err := lookup.ProductByExternalKey(ctx, item.ProductKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if product != nil {
			pallet.ProductID = &product.GUID
		}
	}
	if item.CellKey != "" {
		cell, err := lookup.CellByExternalKey(ctx, item.CellKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if cell != nil {
			pallet.CellID = &cell.GUID
		}
	}
	if item.ShiftKey != "" {
		shift, err := lookup.ShiftByExternalKey(ctx, item.ShiftKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if shift != nil {
			pallet.ShiftID = &shift.GUID
		}
	}
	if item.ProductionShopKey != "" {
		shop, err := lookup.ProductionShopByExternalKey(ctx, item.ProductionShopKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if shop != nil {
			pallet.ProductionShopID = &shop.GUID
		}
	}
	return nil
}

// DividePalletTx splits a pallet in a single transaction
func (s *PalletService) DividePalletTx(ctx context.Context, sourceCode string, spec DivideSpec, caller uuid.UUID, kind task.Kind) ([]PalletView, error) {
	var views []PalletView
	err := s.scope.Execute(ctx, func(repos Repos) error {
		source, created, err := s.DividePallet(ctx, repos, sourceCode, spec, caller, kind)
		if err != nil {
			return err
		}
		views = []PalletView{ToPalletView(source), ToPalletView(created)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// DividePallet splits a new pallet off the source pallet. The source row is
// locked for the rest of the transaction so concurrent splits cannot
// over-draw it. Returns the source and the new pallet.
func (s *PalletService) DividePallet(ctx context.Context, repos Repos, sourceCode string, spec DivideSpec, caller uuid.UUID, kind task.Kind) (*domain.Pallet, *domain.Pallet, error) {
	source, err := repos.Pallets().FindByCodeForUpdate(ctx, sourceCode)
	if err != nil {
		return nil, nil, err
	}

	created := domain.NewPallet(spec.NewCode)
	created.ProductID = source.ProductID
	created.ShiftID = source.ShiftID
	created.ProductionShopID = source.ProductionShopID
	created.BatchNumber = source.BatchNumber
	created.ProductionDate = source.ProductionDate
	created.Series = source.Series
	created.PalletType = source.PalletType
	created.ContentCount = spec.Count
	created.Weight = spec.Weight
	if err := repos.Pallets().Create(ctx, created); err != nil {
		return nil, nil, err
	}

	params := WithdrawalParams{Destination: &created.GUID, User: &caller}
	if err := s.withdraw(ctx, repos, source, spec.Count, spec.Weight, domain.SourceTypeDivide, params); err != nil {
		return nil, nil, err
	}

	switch kind {
	case task.KindAcceptanceToStock:
		if err := s.createDividedCollect(ctx, repos, source, created, caller); err != nil {
			return nil, nil, err
		}
	case task.KindMovementWithShipment:
		if err := s.rewireDependentPallet(ctx, repos, spec.OperationGUID, source, created); err != nil {
			return nil, nil, err
		}
	}

	return source, created, nil
}

// createDividedCollect wraps an acceptance-time split in a pallet-collect
// operation of subtype DIVIDED, parented to the source's original collect
// task so the split shows up in the same document chain.
func (s *PalletService) createDividedCollect(ctx context.Context, repos Repos, source, created *domain.Pallet, caller uuid.UUID) error {
	op := task.NewOperation(task.KindPalletCollect)
	op.CollectKind = task.CollectDivided
	op.UserID = &caller
	op.ParentTaskID = source.CollectTaskID
	number, err := repos.Operations().NextNumber(ctx, task.KindPalletCollect)
	if err != nil {
		return err
	}
	op.Number = number
	if err := repos.Operations().Create(ctx, op); err != nil {
		return err
	}
	link := task.AttachPallet(op, created.GUID, created.ContentCount)
	link.DependentPalletGUID = &source.GUID
	return repos.Content().SavePallet(ctx, link)
}

// rewireDependentPallet points the movement operation's existing pallet link
// at the new pallet instead of opening another operation.
func (s *PalletService) rewireDependentPallet(ctx context.Context, repos Repos, operationGUID *uuid.UUID, source, created *domain.Pallet) error {
	if operationGUID == nil {
		return shared.NewDomainError("VALIDATION_FAILED", "operation_guid is required to divide during movement with shipment")
	}
	link, err := repos.Content().FindPalletLink(ctx, *operationGUID, source.GUID)
	if err != nil {
		return err
	}
	link.DependentPalletGUID = &created.GUID
	return repos.Content().SavePallet(ctx, link)
}

// RemoveBoxes withdraws a quantity from a pallet found by code. The source
// row is locked before the withdrawal decision.
func (s *PalletService) RemoveBoxes(ctx context.Context, repos Repos, sourceCode string, count int, weight decimal.Decimal, reason domain.SourceType, params WithdrawalParams) (*domain.Pallet, error) {
	source, err := repos.Pallets().FindByCodeForUpdate(ctx, sourceCode)
	if err != nil {
		return nil, err
	}
	if err := s.withdraw(ctx, repos, source, count, weight, reason, params); err != nil {
		return nil, err
	}
	return source, nil
}

// withdraw decrements the (already locked) source pallet and writes the one
// ledger row that accounts for the withdrawal.
func (s *PalletService) withdraw(ctx context.Context, repos Repos, source *domain.Pallet, count int, weight decimal.Decimal, reason domain.SourceType, params WithdrawalParams) error {
	if err := source.Withdraw(count, weight); err != nil {
		return err
	}
	if err := repos.Pallets().Save(ctx, source); err != nil {
		return err
	}

	row := domain.NewPalletSource(source.GUID, count, weight, reason)
	row.DestinationGUID = params.Destination
	row.RelatedTaskID = params.RelatedTask
	row.UserID = params.User
	row.ExternalKey = params.ExternalKey
	if err := repos.PalletSources().Append(ctx, row); err != nil {
		return err
	}

	if source.IsArchived() {
		s.logger.Info("pallet exhausted and archived", zap.String("code", source.Code))
	}
	return nil
}

// CheckAndCollectOrders re-evaluates the order lines behind the given
// external keys. A line becomes collected once its cumulative sourced count
// reaches its required count; an order closes only when every one of its
// lines is collected. Partial collection leaves the order open.
func (s *PalletService) CheckAndCollectOrders(ctx context.Context, repos Repos, externalKeys []string) error {
	if len(externalKeys) == 0 {
		return nil
	}

	sums, err := repos.PalletSources().SumCountByExternalKeys(ctx, externalKeys)
	if err != nil {
		return err
	}
	lines, err := repos.PalletProducts().FindByExternalKeys(ctx, externalKeys)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].IsCollected {
			continue
		}
		if sums[lines[i].ExternalKey] >= lines[i].Count {
			lines[i].IsCollected = true
			if err := repos.PalletProducts().Save(ctx, &lines[i]); err != nil {
				return err
			}
		}
	}

	return s.closeFullyCollectedOrders(ctx, repos, externalKeys)
}

func (s *PalletService) closeFullyCollectedOrders(ctx context.Context, repos Repos, externalKeys []string) error {
	rows, err := repos.Content().FindProductsByExternalKeys(ctx, externalKeys)
	if err != nil {
		return err
	}

	seen := make(map[uuid.UUID]bool)
	for i := range rows {
		if rows[i].OperationKind != task.KindOrder || seen[rows[i].OperationGUID] {
			continue
		}
		seen[rows[i].OperationGUID] = true

		collected, err := s.orderFullyCollected(ctx, repos, rows[i].OperationGUID)
		if err != nil {
			return err
		}
		if !collected {
			continue
		}
		op, err := repos.Operations().FindByGUID(ctx, rows[i].OperationGUID)
		if err != nil {
			return err
		}
		if err := s.closer.Close(ctx, repos, op); err != nil {
			return err
		}
		s.logger.Info("order fully collected and closed", zap.String("guid", op.GUID.String()))
	}
	return nil
}

// orderFullyCollected reports whether every product line of the order has a
// collected pallet line behind it
func (s *PalletService) orderFullyCollected(ctx context.Context, repos Repos, orderGUID uuid.UUID) (bool, error) {
	products, err := repos.Content().ProductsOf(ctx, orderGUID)
	if err != nil {
		return false, err
	}
	if len(products) == 0 {
		return false, nil
	}
	keys := make([]string, 0, len(products))
	for i := range products {
		if products[i].ExternalKey == "" {
			return false, nil
		}
		keys = append(keys, products[i].ExternalKey)
	}
	lines, err := repos.PalletProducts().FindByExternalKeys(ctx, keys)
	if err != nil {
		return false, err
	}
	if len(lines) == 0 {
		return false, nil
	}
	byKey := make(map[string]bool, len(lines))
	for i := range lines {
		if lines[i].IsCollected {
			byKey[lines[i].ExternalKey] = true
		}
	}
	for _, key := range keys {
		if !byKey[key] {
			return false, nil
		}
	}
	return true, nil
}
