package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	"go.uber.org/zap"
)

// Deps carries the collaborators the router's behavior bundles close over
type Deps struct {
	Pallets *wh.PalletService
	Logger  *zap.Logger
}

// builder constructs the per-kind create and content functions
type builder struct {
	pallets *wh.PalletService
	logger  *zap.Logger
}

// createDocument is the shared create path: resolve the upstream document,
// return the existing operation if the document already produced one, else
// allocate a number and persist a new operation with its linked entities.
func (b *builder) createDocument(ctx context.Context, repos wh.Repos, kind task.Kind, payload *CreatePayload, caller *uuid.UUID) (*task.Operation, bool, error) {
	src := payload.ExternalSource
	source, err := repos.ExternalSources().GetOrCreate(ctx, src.Name, src.ExternalKey, src.Number, src.Date)
	if err != nil {
		return nil, false, err
	}

	existing, err := repos.Operations().FindByExternalKey(ctx, kind, src.ExternalKey)
	if err == nil {
		existing.ExternalSource = source
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	op := task.NewOperation(kind)
	op.ExternalSourceID = &source.GUID
	op.ExternalSource = source
	op.Line = payload.Line
	op.BatchNumber = payload.BatchNumber
	op.CollectKind = payload.CollectKind
	op.ParentTaskID = payload.ParentTaskGUID
	op.UserID = caller

	if err := b.resolveDocumentLinks(ctx, repos, op, payload); err != nil {
		return nil, false, err
	}

	number, err := repos.Operations().NextNumber(ctx, kind)
	if err != nil {
		return nil, false, err
	}
	op.Number = number

	if err := repos.Operations().Create(ctx, op); err != nil {
		return nil, false, err
	}
	return op, true, nil
}

func (b *builder) resolveDocumentLinks(ctx context.Context, repos wh.Repos, op *task.Operation, payload *CreatePayload) error {
	lookup := repos.Catalog()
	if payload.StorageKey != "" {
		storage, err := lookup.StorageByExternalKey(ctx, payload.StorageKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if storage != nil {
			op.StorageID = &storage.GUID
		}
	}
	if payload.DirectionKey != "" {
		direction, err := lookup.DirectionByExternalKey(ctx, payload.DirectionKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if direction != nil {
			op.DirectionID = &direction.GUID
		}
	}
	if payload.ClientKey != "" {
		client, err := lookup.ClientByExternalKey(ctx, payload.ClientKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if client != nil {
			op.ClientID = &client.GUID
		}
	}
	if payload.ShiftKey != "" {
		shift, err := lookup.ShiftByExternalKey(ctx, payload.ShiftKey)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("VALIDATION_FAILED", "Shift "+payload.ShiftKey+" does not exist")
			}
			return err
		}
		if !shift.IsOpen() {
			return shared.NewDomainError("VALIDATION_FAILED", "Shift "+payload.ShiftKey+" is closed")
		}
		op.ShiftID = &shift.GUID
	}
	return nil
}

// attachContent persists the content rows and nested pallets of a freshly
// created operation. Runs only on first creation; idempotent re-submissions
// never reach it.
func (b *builder) attachContent(ctx context.Context, repos wh.Repos, op *task.Operation, payload *CreatePayload, caller *uuid.UUID) error {
	if len(payload.Pallets) > 0 {
		pallets, err := b.pallets.CreatePallets(ctx, repos, payload.Pallets, caller, op)
		if err != nil {
			return err
		}
		for i := range pallets {
			link := task.AttachPallet(op, pallets[i].GUID, pallets[i].ContentCount)
			if err := repos.Content().SavePallet(ctx, link); err != nil {
				return err
			}
		}
	}

	for i := range payload.Products {
		line := payload.Products[i]
		var productID *uuid.UUID
		if line.ProductKey != "" {
			product, err := repos.Catalog().ProductByExternalKey(ctx, line.ProductKey)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			if product != nil {
				productID = &product.GUID
			}
		}
		row := task.AttachProduct(op, productID, line.ExternalKey, line.Count, line.Weight)
		if err := repos.Content().SaveProduct(ctx, row); err != nil {
			return err
		}
	}

	for i := range payload.Cells {
		row, err := b.buildCellRow(ctx, repos, op, &payload.Cells[i])
		if err != nil {
			return err
		}
		if err := repos.Content().SaveCell(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) buildCellRow(ctx context.Context, repos wh.Repos, op *task.Operation, line *CellLinePayload) (*task.OperationCell, error) {
	var palletGUID, sourceID, destinationID *uuid.UUID
	if line.PalletCode != "" {
		pallet, err := repos.Pallets().FindByCode(ctx, line.PalletCode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if pallet != nil {
			palletGUID = &pallet.GUID
		}
	}
	if line.SourceCellKey != "" {
		cell, err := repos.Catalog().CellByExternalKey(ctx, line.SourceCellKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if cell != nil {
			sourceID = &cell.GUID
		}
	}
	if line.DestinationCellKey != "" {
		cell, err := repos.Catalog().CellByExternalKey(ctx, line.DestinationCellKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if cell != nil {
			destinationID = &cell.GUID
		}
	}
	return task.AttachCell(op, palletGUID, sourceID, destinationID, line.Count), nil
}

// createFor returns the standard create function for a kind: idempotent
// document create plus content attachment.
func (b *builder) createFor(kind task.Kind) CreateFunc {
	return func(ctx context.Context, repos wh.Repos, payload *CreatePayload, caller *uuid.UUID) ([]uuid.UUID, error) {
		op, created, err := b.createDocument(ctx, repos, kind, payload, caller)
		if err != nil {
			return nil, err
		}
		if created {
			if err := b.attachContent(ctx, repos, op, payload, caller); err != nil {
				return nil, err
			}
		}
		return []uuid.UUID{op.GUID}, nil
	}
}

// requireExternalKey is the baseline write-shape validation every document
// kind shares
func requireExternalKey(payload *CreatePayload) error {
	if payload.ExternalSource.ExternalKey == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "external_source.external_key is required")
	}
	return nil
}

// validateAcceptance additionally requires the receiving storage
func validateAcceptance(payload *CreatePayload) error {
	if err := requireExternalKey(payload); err != nil {
		return err
	}
	if payload.StorageKey == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "storage is required for acceptance")
	}
	return nil
}

// validateCollect requires the collect reason; the shift, when named, is
// checked for existence and openness during create
func validateCollect(payload *CreatePayload) error {
	if err := requireExternalKey(payload); err != nil {
		return err
	}
	if payload.CollectKind == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "type_collect is required for pallet collect")
	}
	return nil
}

// validateOrder requires at least one product line to aggregate against
func validateOrder(payload *CreatePayload) error {
	if err := requireExternalKey(payload); err != nil {
		return err
	}
	if len(payload.Products) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "an order needs at least one product line")
	}
	return nil
}
