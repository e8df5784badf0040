package task

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	wh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/task"
)

// ExternalSourcePayload names the upstream document a task originates from.
// ExternalKey is the idempotency key: one document, one operation.
type ExternalSourcePayload struct {
	Name        string    `json:"name"`
	ExternalKey string    `json:"external_key"`
	Number      string    `json:"number"`
	Date        time.Time `json:"date"`
}

// ProductLinePayload is an ordered product line inside a create payload
type ProductLinePayload struct {
	ProductKey  string          `json:"product"`
	ExternalKey string          `json:"external_key"`
	Count       int             `json:"count"`
	Weight      decimal.Decimal `json:"weight"`
}

// CellLinePayload is a cell assignment inside a create payload
type CellLinePayload struct {
	PalletCode         string `json:"pallet"`
	SourceCellKey      string `json:"cell_source"`
	DestinationCellKey string `json:"cell_destination"`
	Count              int    `json:"count"`
}

// CreatePayload is the write shape shared by all task kinds; each kind's
// create function reads the fields it cares about and its validate function
// rejects what it requires but did not get.
type CreatePayload struct {
	ExternalSource ExternalSourcePayload `json:"external_source"`
	StorageKey     string                `json:"storage"`
	DirectionKey   string                `json:"direction"`
	ClientKey      string                `json:"client"`
	ShiftKey       string                `json:"shift"`
	Line           string                `json:"line"`
	BatchNumber    string                `json:"batch_number"`
	CollectKind    task.CollectKind      `json:"type_collect"`
	ParentTaskGUID *uuid.UUID            `json:"parent_task"`
	Pallets        []wh.PalletItem       `json:"pallets"`
	Products       []ProductLinePayload  `json:"products"`
	Cells          []CellLinePayload     `json:"cells"`
}

// PropertiesPatch is the subset of operation fields a caller may patch.
// Absent fields stay untouched; they are never reset.
type PropertiesPatch struct {
	Status   *task.Status `json:"status"`
	Unloaded *bool        `json:"unloaded"`
}

// PalletWithdrawItem names a withdrawal from a source pallet during a
// content change
type PalletWithdrawItem struct {
	PalletCode  string          `json:"pallet"`
	Count       int             `json:"count"`
	Weight      decimal.Decimal `json:"weight"`
	ExternalKey string          `json:"external_key"`
	Destination string          `json:"destination"`
}

// ProductFactItem fills in the fact quantity of a product line
type ProductFactItem struct {
	ExternalKey string           `json:"external_key"`
	ProductKey  string           `json:"product"`
	FactCount   *int             `json:"fact_count"`
	FactWeight  *decimal.Decimal `json:"fact_weight"`
}

// CellContentItem fills in the destination cell of a cell row
type CellContentItem struct {
	RowGUID            *uuid.UUID `json:"guid"`
	SourceCellKey      string     `json:"cell_source"`
	DestinationCellKey string     `json:"cell_destination"`
	Count              int        `json:"count"`
}

// AggregationItem attaches scan codes to a pallet during marking
type AggregationItem struct {
	PalletCode string   `json:"pallet"`
	Codes      []string `json:"codes"`
}

// ContentPayload is the content-change shape. Properties, when present, is
// applied as a partial patch before the kind-specific mutation runs.
type ContentPayload struct {
	Properties  *PropertiesPatch     `json:"properties"`
	Cells       []CellContentItem    `json:"cells"`
	Products    []ProductFactItem    `json:"products"`
	Pallets     []PalletWithdrawItem `json:"pallets"`
	Aggregation []AggregationItem    `json:"aggregation"`
}

// TaskView is the read shape of an operation
type TaskView struct {
	GUID          uuid.UUID   `json:"guid"`
	Type          string      `json:"type"`
	Number        int64       `json:"number"`
	Date          time.Time   `json:"date"`
	Status        task.Status `json:"status"`
	Closed        bool        `json:"closed"`
	ReadyToUnload bool        `json:"ready_to_unload"`
	Unloaded      bool        `json:"unloaded"`
	Line          string      `json:"line,omitempty"`
	BatchNumber   string      `json:"batch_number,omitempty"`
	ExternalKey   string      `json:"external_key,omitempty"`
	User          *uuid.UUID  `json:"user,omitempty"`
}

// ToTaskView shapes an operation for responses
func ToTaskView(op *task.Operation) TaskView {
	view := TaskView{
		GUID:          op.GUID,
		Type:          op.Kind.String(),
		Number:        op.Number,
		Date:          op.Date,
		Status:        op.Status,
		Closed:        op.Closed,
		ReadyToUnload: op.ReadyToUnload,
		Unloaded:      op.Unloaded,
		Line:          op.Line,
		BatchNumber:   op.BatchNumber,
		User:          op.UserID,
	}
	if op.ExternalSource != nil {
		view.ExternalKey = op.ExternalSource.ExternalKey
	}
	return view
}

// decodeContent strictly decodes a content payload; any shape mismatch is a
// malformed-content error, not a validation error.
func decodeContent(raw json.RawMessage) (*ContentPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var payload ContentPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, shared.ErrMalformedContent
	}
	return &payload, nil
}

// decodeCreate decodes a create payload
func decodeCreate(raw json.RawMessage) (*CreatePayload, error) {
	var payload CreatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Create payload is not valid JSON: "+err.Error())
	}
	return &payload, nil
}
