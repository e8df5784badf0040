package catalog

import "context"

// Lookup resolves catalog entities by their upstream external key.
// Absence is a valid "not linked" result: implementations return
// (nil, shared.ErrNotFound) and callers decide whether that matters.
type Lookup interface {
	ProductByExternalKey(ctx context.Context, key string) (*Product, error)
	StorageByExternalKey(ctx context.Context, key string) (*Storage, error)
	CellByExternalKey(ctx context.Context, key string) (*StorageCell, error)
	ShiftByExternalKey(ctx context.Context, key string) (*Shift, error)
	ProductionShopByExternalKey(ctx context.Context, key string) (*ProductionShop, error)
	DirectionByExternalKey(ctx context.Context, key string) (*Direction, error)
	ClientByExternalKey(ctx context.Context, key string) (*Client, error)
}
