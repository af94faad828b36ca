package entrystore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := newNotFoundError("abc")
	assert.Equal(t, "NOT_FOUND: no entry stored at address (address=abc)", err.Error())

	cause := errors.New("boom")
	err = newEncodingError(cause)
	assert.Equal(t, "ENCODING_ERROR: record cannot be canonicalized: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsHelpersThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", newUninitializedError())
	assert.True(t, IsUninitializedError(wrapped))
	assert.False(t, IsEncodingError(wrapped))
	assert.False(t, IsNotFoundError(errors.New("plain")))
	assert.True(t, IsInvalidAddressError(newInvalidAddressError("x", errors.New("short"))))
}

func TestClock(t *testing.T) {
	c := NewClockAt(5)
	assert.Equal(t, int64(5), c.Current())
	assert.Equal(t, int64(6), c.Next())
	assert.Equal(t, int64(7), c.Next())
	assert.Equal(t, int64(7), c.Current())
}
