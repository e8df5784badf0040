package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	domain "github.com/wms/backend/internal/domain/warehouse"
)

// PalletItem describes one pallet to create or upsert
type PalletItem struct {
	Code              string            `json:"id"`
	ExternalKey       string            `json:"external_key"`
	ProductKey        string            `json:"product"`
	CellKey           string            `json:"cell"`
	ShiftKey          string            `json:"shift"`
	ProductionShopKey string            `json:"production_shop"`
	BatchNumber       string            `json:"batch_number"`
	ProductionDate    *time.Time        `json:"production_date"`
	Weight            decimal.Decimal   `json:"weight"`
	ContentCount      int               `json:"content_count"`
	PalletType        domain.PalletType `json:"pallet_type"`
	Series            string            `json:"series"`
	Products          []PalletLineItem  `json:"products"`
	Codes             []string          `json:"codes"`
}

// PalletLineItem describes one ordered product line inside a pallet
type PalletLineItem struct {
	ProductKey  string `json:"product"`
	Count       int    `json:"count"`
	BatchNumber string `json:"batch_number"`
	ExternalKey string `json:"external_key"`
}

// DivideSpec describes the new pallet split off a source pallet
type DivideSpec struct {
	NewCode string          `json:"id" binding:"required"`
	Count   int             `json:"count" binding:"required,gt=0"`
	Weight  decimal.Decimal `json:"weight"`
	// OperationGUID names the movement-with-shipment operation whose pallet
	// link is rewired to the new pallet. Ignored for other task kinds.
	OperationGUID *uuid.UUID `json:"operation_guid"`
}

// WithdrawalParams carries the bookkeeping context of a withdrawal
type WithdrawalParams struct {
	Destination *uuid.UUID
	RelatedTask *uuid.UUID
	User        *uuid.UUID
	ExternalKey string
}

// PalletView is the read shape of a pallet
type PalletView struct {
	GUID         uuid.UUID           `json:"guid"`
	Code         string              `json:"id"`
	Status       domain.PalletStatus `json:"status"`
	Weight       decimal.Decimal     `json:"weight"`
	ContentCount int                 `json:"content_count"`
	BatchNumber  string              `json:"batch_number"`
	PalletType   domain.PalletType   `json:"pallet_type"`
}

// ToPalletView shapes a pallet for responses
func ToPalletView(p *domain.Pallet) PalletView {
	return PalletView{
		GUID:         p.GUID,
		Code:         p.Code,
		Status:       p.Status,
		Weight:       p.Weight,
		ContentCount: p.ContentCount,
		BatchNumber:  p.BatchNumber,
		PalletType:   p.PalletType,
	}
}
