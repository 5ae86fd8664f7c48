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

func TestWrapfPreservesSentinel(t *testing.T) {
	sentinel := New("unknown class id")
	wrapped := Wrapf(sentinel, "class %q", "savignano-type")

	assert.True(t, Is(wrapped, sentinel))
	assert.Contains(t, wrapped.Error(), `"savignano-type"`)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("duplicate class id"), "use Modify to create a new version")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "duplicate class id")
}
