package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerNotNilBeforeInitialize(t *testing.T) {
	// The package-level logger must be usable before Initialize.
	require.NotNil(t, Logger)
	Info("this should not panic")
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	Infow("initialized", "mode", "console")
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
	Infow("initialized", "mode", "json")
}
