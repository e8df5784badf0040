package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/wms/backend/internal/domain/task"
)

var knownKinds = map[task.Kind]bool{
	task.KindMarking:                true,
	task.KindAcceptanceToStock:      true,
	task.KindPalletCollect:          true,
	task.KindPlacementToCells:       true,
	task.KindMovementBetweenCells:   true,
	task.KindMovementBetweenPallets: true,
	task.KindShipment:               true,
	task.KindSelection:              true,
	task.KindOrder:                  true,
	task.KindInventory:              true,
	task.KindRepacking:              true,
	task.KindArrivalAtStock:         true,
	task.KindWriteOff:               true,
	task.KindCancelShipment:         true,
	task.KindMovementWithShipment:   true,
}

// validTaskKind reports whether the field names a known task kind
func validTaskKind(fl validator.FieldLevel) bool {
	return knownKinds[task.Kind(fl.Field().String())]
}

// RegisterValidations installs the custom binding validations on gin's
// validator engine. Call once at startup, before serving.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("taskkind", validTaskKind)
}
