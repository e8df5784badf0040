package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
	domainwh "github.com/wms/backend/internal/domain/warehouse"
)

// collectReason maps a collect operation to the ledger reason its withdrawals
// are recorded under. Repacking tasks share the collect content flow but keep
// their own reason.
func collectReason(op *task.Operation) domainwh.SourceType {
	if op.Kind == task.KindRepacking {
		return domainwh.SourceTypeRepacking
	}
	switch op.CollectKind {
	case task.CollectSelection:
		return domainwh.SourceTypeSelection
	case task.CollectInventory:
		return domainwh.SourceTypeInventory
	case task.CollectWriteOff:
		return domainwh.SourceTypeWriteOff
	case task.CollectDivided:
		return domainwh.SourceTypeDivide
	default:
		return domainwh.SourceTypeCollect
	}
}

// fillCells fills in destination cells on the operation's cell rows. Rows
// are matched by row guid when given, by source cell otherwise.
func (b *builder) fillCells(ctx context.Context, repos wh.Repos, op *task.Operation, items []CellContentItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	rows, err := repos.Content().CellsOf(ctx, op.GUID)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range items {
		row, err := b.matchCellRow(ctx, repos, rows, &items[i])
		if err != nil {
			return 0, err
		}
		if row == nil {
			return 0, shared.NewDomainError("VALIDATION_FAILED", "Cell row not found on this task")
		}
		if items[i].DestinationCellKey != "" {
			cell, err := repos.Catalog().CellByExternalKey(ctx, items[i].DestinationCellKey)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return 0, shared.NewDomainError("VALIDATION_FAILED", "Unknown destination cell "+items[i].DestinationCellKey)
				}
				return 0, err
			}
			row.DestinationCellID = &cell.GUID
		}
		if items[i].Count > 0 {
			row.Count = items[i].Count
		}
		row.Changed = true
		if err := repos.Content().SaveCell(ctx, row); err != nil {
			return 0, err
		}
		changed++
	}
	return changed, nil
}

func (b *builder) matchCellRow(ctx context.Context, repos wh.Repos, rows []task.OperationCell, item *CellContentItem) (*task.OperationCell, error) {
	if item.RowGUID != nil {
		for i := range rows {
			if rows[i].GUID == *item.RowGUID {
				return &rows[i], nil
			}
		}
		return nil, nil
	}
	if item.SourceCellKey == "" {
		return nil, nil
	}
	cell, err := repos.Catalog().CellByExternalKey(ctx, item.SourceCellKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	for i := range rows {
		if rows[i].SourceCellID != nil && *rows[i].SourceCellID == cell.GUID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// fillProductFacts records fact quantities on the operation's product rows,
// matched by order line key (falling back to product key)
func (b *builder) fillProductFacts(ctx context.Context, repos wh.Repos, op *task.Operation, items []ProductFactItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	rows, err := repos.Content().ProductsOf(ctx, op.GUID)
	if err != nil {
		return 0, err
	}

	filled := 0
	for i := range items {
		var row *task.OperationProduct
		if items[i].ExternalKey != "" {
			for j := range rows {
				if rows[j].ExternalKey == items[i].ExternalKey {
					row = &rows[j]
					break
				}
			}
		} else if items[i].ProductKey != "" {
			product, err := repos.Catalog().ProductByExternalKey(ctx, items[i].ProductKey)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return 0, shared.NewDomainError("VALIDATION_FAILED", "Unknown product "+items[i].ProductKey)
				}
				return 0, err
			}
			for j := range rows {
				if rows[j].ProductID != nil && *rows[j].ProductID == product.GUID {
					row = &rows[j]
					break
				}
			}
		}
		if row == nil {
			return 0, shared.NewDomainError("VALIDATION_FAILED", "Product line not found on this task")
		}
		if items[i].FactCount != nil {
			row.FactCount = items[i].FactCount
		}
		if items[i].FactWeight != nil {
			row.FactWeight = items[i].FactWeight
		}
		if err := repos.Content().SaveProduct(ctx, row); err != nil {
			return 0, err
		}
		filled++
	}
	return filled, nil
}

// withdrawPallets runs the listed withdrawals, each paired with its ledger
// row, and returns the order line keys they touched
func (b *builder) withdrawPallets(ctx context.Context, repos wh.Repos, op *task.Operation, items []PalletWithdrawItem, reason domainwh.SourceType) ([]string, error) {
	touched := make([]string, 0, len(items))
	for i := range items {
		params := wh.WithdrawalParams{
			RelatedTask: &op.GUID,
			User:        op.UserID,
			ExternalKey: items[i].ExternalKey,
		}
		if items[i].Destination != "" {
			destination, err := repos.Pallets().FindByCode(ctx, items[i].Destination)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown destination pallet "+items[i].Destination)
				}
				return nil, err
			}
			params.Destination = &destination.GUID
		}
		if _, err := b.pallets.RemoveBoxes(ctx, repos, items[i].PalletCode, items[i].Count, items[i].Weight, reason, params); err != nil {
			return nil, err
		}
		if items[i].ExternalKey != "" {
			touched = append(touched, items[i].ExternalKey)
		}
	}
	return touched, nil
}

// contentPlacement fills destination cells of a placement task
func (b *builder) contentPlacement(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	changed, err := b.fillCells(ctx, repos, op, payload.Cells)
	if err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "cells_changed": changed}, nil
}

// contentCollect books the collected pallets against their sources and
// re-checks order aggregation for the touched lines
func (b *builder) contentCollect(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	touched, err := b.withdrawPallets(ctx, repos, op, payload.Pallets, collectReason(op))
	if err != nil {
		return nil, err
	}
	if err := b.pallets.CheckAndCollectOrders(ctx, repos, touched); err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "withdrawals": len(payload.Pallets)}, nil
}

// contentSelection fills destinations and books the selected quantities
func (b *builder) contentSelection(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	changed, err := b.fillCells(ctx, repos, op, payload.Cells)
	if err != nil {
		return nil, err
	}
	touched, err := b.withdrawPallets(ctx, repos, op, payload.Pallets, domainwh.SourceTypeSelection)
	if err != nil {
		return nil, err
	}
	if err := b.pallets.CheckAndCollectOrders(ctx, repos, touched); err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "cells_changed": changed, "withdrawals": len(payload.Pallets)}, nil
}

// contentInventory records fact quantities and books count corrections
func (b *builder) contentInventory(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	filled, err := b.fillProductFacts(ctx, repos, op, payload.Products)
	if err != nil {
		return nil, err
	}
	if _, err := b.withdrawPallets(ctx, repos, op, payload.Pallets, domainwh.SourceTypeInventory); err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "facts_filled": filled}, nil
}

// contentWriteOff books written-off quantities against their pallets
func (b *builder) contentWriteOff(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	if _, err := b.withdrawPallets(ctx, repos, op, payload.Pallets, domainwh.SourceTypeWriteOff); err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "withdrawals": len(payload.Pallets)}, nil
}

// contentShipment records fact quantities on a shipment's product lines
func (b *builder) contentShipment(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	filled, err := b.fillProductFacts(ctx, repos, op, payload.Products)
	if err != nil {
		return nil, err
	}
	return map[string]any{"guid": op.GUID, "facts_filled": filled}, nil
}

// contentMarking attaches scanned aggregation codes to pallets; a code
// already attached anywhere is skipped
func (b *builder) contentMarking(ctx context.Context, repos wh.Repos, op *task.Operation, payload *ContentPayload) (map[string]any, error) {
	attached := 0
	for i := range payload.Aggregation {
		pallet, err := repos.Pallets().FindByCode(ctx, payload.Aggregation[i].PalletCode)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown pallet "+payload.Aggregation[i].PalletCode)
			}
			return nil, err
		}
		for _, code := range payload.Aggregation[i].Codes {
			written, err := repos.AggregationCodes().Attach(ctx, pallet.GUID, code)
			if err != nil {
				return nil, err
			}
			if written {
				attached++
			}
		}
	}
	return map[string]any{"guid": op.GUID, "codes_attached": attached}, nil
}

// takeClaimPallets is the composite-take sub-step: the operation's pallets
// are claimed for the target status before the take is accepted
func (b *builder) takeClaimPallets(status domainwh.PalletStatus) TakeFunc {
	return func(ctx context.Context, repos wh.Repos, op *task.Operation, caller uuid.UUID) error {
		links, err := repos.Content().PalletsOf(ctx, op.GUID)
		if err != nil {
			return err
		}
		for i := range links {
			pallet, err := repos.Pallets().FindByGUIDForUpdate(ctx, links[i].PalletGUID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			if pallet.IsArchived() {
				continue
			}
			pallet.Status = status
			pallet.Touch()
			if err := repos.Pallets().Save(ctx, pallet); err != nil {
				return err
			}
		}
		return nil
	}
}
