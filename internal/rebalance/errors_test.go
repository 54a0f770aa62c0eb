package rebalance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebalanceError_Format(t *testing.T) {
	err := newInvalidFactorError("compress", 1.5)
	assert.Contains(t, err.Error(), "INVALID_FACTOR")
	assert.Contains(t, err.Error(), "1.5")

	err = newInvalidRangeError("normalize", 200, 100)
	assert.Contains(t, err.Error(), "INVALID_RANGE")
	assert.Contains(t, err.Error(), "200")
}

func TestRebalanceError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := wrapTxError("redistribute", cause)

	assert.True(t, errors.Is(err, cause), "original cause must stay attached")
	assert.Contains(t, err.Error(), "disk full")
}

func TestErrorPredicates(t *testing.T) {
	factorErr := newInvalidFactorError("compress", 0)
	rangeErr := newInvalidRangeError("normalize", 9, 3)
	txErr := wrapTxError("redistribute", errors.New("boom"))

	assert.True(t, IsInvalidArgument(factorErr))
	assert.True(t, IsInvalidArgument(rangeErr))
	assert.False(t, IsInvalidArgument(txErr))

	assert.True(t, IsTransactionFailure(txErr))
	assert.False(t, IsTransactionFailure(factorErr))

	// Wrapped errors still match
	wrapped := fmt.Errorf("outer: %w", txErr)
	assert.True(t, IsTransactionFailure(wrapped))

	assert.False(t, IsInvalidArgument(errors.New("plain")))
	assert.False(t, IsTransactionFailure(nil))
}
