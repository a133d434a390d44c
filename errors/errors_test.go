package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestIsInvariantViolation(t *testing.T) {
	assert.False(t, IsInvariantViolation(nil))
	assert.False(t, IsInvariantViolation(New("transient disk error")))

	for _, sentinel := range []error{
		ErrNamingCollision,
		ErrFileNameCollision,
		ErrEmptySingleton,
		ErrSingletonCardinality,
		ErrUnknownDocType,
	} {
		assert.True(t, IsInvariantViolation(sentinel))
		assert.True(t, IsInvariantViolation(Wrap(sentinel, "planning failed")),
			"wrapping must preserve invariant classification")
	}
}

func TestIsInputError(t *testing.T) {
	assert.False(t, IsInputError(nil))
	assert.False(t, IsInputError(ErrNamingCollision))
	assert.True(t, IsInputError(Wrap(ErrSchemaUnavailable, "source down")))
	assert.True(t, IsInputError(Wrapf(ErrFetchFailed, "pass %d", 3)))
}
