package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
)

func TestNewOperation(t *testing.T) {
	op := NewOperation(KindShipment)

	assert.Equal(t, KindShipment, op.Kind)
	assert.Equal(t, StatusNew, op.Status)
	assert.False(t, op.Closed)
	assert.False(t, op.ReadyToUnload)
	assert.False(t, op.Unloaded)
	assert.False(t, op.Date.IsZero())
}

func TestOperation_Take(t *testing.T) {
	t.Run("claims a new operation", func(t *testing.T) {
		op := NewOperation(KindSelection)
		userID := uuid.New()

		err := op.Take(userID)
		require.NoError(t, err)

		assert.Equal(t, StatusWork, op.Status)
		assert.Equal(t, userID, op.Owner())
	})

	t.Run("rejects a second take while in work", func(t *testing.T) {
		op := NewOperation(KindSelection)
		require.NoError(t, op.Take(uuid.New()))

		err := op.Take(uuid.New())
		assert.ErrorIs(t, err, shared.ErrAlreadyInProgress)
	})

	t.Run("allows re-taking a waiting operation", func(t *testing.T) {
		op := NewOperation(KindSelection)
		op.Status = StatusWait

		err := op.Take(uuid.New())
		require.NoError(t, err)
		assert.Equal(t, StatusWork, op.Status)
	})
}

func TestOperation_Close(t *testing.T) {
	op := NewOperation(KindMarking)
	require.NoError(t, op.Take(uuid.New()))

	op.Close()

	assert.Equal(t, StatusClose, op.Status)
	assert.True(t, op.Closed)
	assert.True(t, op.IsClosed())
}

func TestOperation_MarkReadyToUnload(t *testing.T) {
	t.Run("requires the operation to be closed", func(t *testing.T) {
		op := NewOperation(KindShipment)

		err := op.MarkReadyToUnload()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.False(t, op.ReadyToUnload)
	})

	t.Run("flags a closed operation", func(t *testing.T) {
		op := NewOperation(KindShipment)
		op.Close()

		require.NoError(t, op.MarkReadyToUnload())
		assert.True(t, op.ReadyToUnload)
	})
}

func TestOperation_MarkUnloaded(t *testing.T) {
	t.Run("requires ready to unload", func(t *testing.T) {
		op := NewOperation(KindShipment)
		op.Close()

		err := op.MarkUnloaded()
		require.Error(t, err)
		assert.False(t, op.Unloaded)
	})

	t.Run("confirms export and stays confirmed", func(t *testing.T) {
		op := NewOperation(KindShipment)
		op.Close()
		require.NoError(t, op.MarkReadyToUnload())

		require.NoError(t, op.MarkUnloaded())
		assert.True(t, op.Unloaded)

		// idempotent
		require.NoError(t, op.MarkUnloaded())
		assert.True(t, op.Unloaded)
	})
}

func TestOperation_Owner(t *testing.T) {
	op := NewOperation(KindOrder)
	assert.Equal(t, uuid.Nil, op.Owner())

	userID := uuid.New()
	op.UserID = &userID
	assert.Equal(t, userID, op.Owner())
}

func TestCollectKind_ParentKind(t *testing.T) {
	tests := []struct {
		collect CollectKind
		kind    Kind
		ok      bool
	}{
		{CollectShipment, KindShipment, true},
		{CollectSelection, KindSelection, true},
		{CollectInventory, "", false},
		{CollectWriteOff, "", false},
		{CollectDivided, "", false},
		{CollectAcceptance, "", false},
		{CollectKind(""), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.collect), func(t *testing.T) {
			kind, ok := tt.collect.ParentKind()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
