package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hivelog/hivelog-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelHierarchy(t *testing.T) {
	t.Parallel()

	for _, err := range []error{store.ErrUserNotFound, store.ErrBatchNotFound, store.ErrCellNotFound} {
		assert.ErrorIs(t, err, store.ErrNotFound, err.Error())
		assert.NotErrorIs(t, err, store.ErrDuplicate, err.Error())
	}
	for _, err := range []error{store.ErrEmailExists, store.ErrCellLabelExists} {
		assert.ErrorIs(t, err, store.ErrDuplicate, err.Error())
		assert.NotErrorIs(t, err, store.ErrNotFound, err.Error())
	}
	assert.NotErrorIs(t, store.ErrBatchNotFound, store.ErrCellNotFound)
	assert.Equal(t, "batch not found", store.ErrBatchNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("wraps underlying error", func(t *testing.T) {
		t.Parallel()
		err := store.NewStoreError("cell", "update", "cell missing", store.ErrCellNotFound)

		assert.Equal(t, "cell update: cell missing: cell not found", err.Error())
		assert.ErrorIs(t, err, store.ErrCellNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)

		var storeErr *store.StoreError
		wrapped := fmt.Errorf("transition: %w", err)
		assert.True(t, errors.As(wrapped, &storeErr))
		assert.Equal(t, "cell", storeErr.Entity)
	})

	t.Run("without underlying error", func(t *testing.T) {
		t.Parallel()
		err := store.NewStoreError("batch", "list", "scan failed", nil)

		assert.Equal(t, "batch list: scan failed", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
