package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConsole(t *testing.T) {
	require.NoError(t, Initialize(false))
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)

	// Must not panic
	Infow("console logger ready", "key", "value")
	Cleanup()
}

func TestInitializeJSON(t *testing.T) {
	require.NoError(t, Initialize(true))
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)

	Infow("json logger ready", "key", "value")
	Cleanup()
}

func TestPackageFunctionsSafeBeforeInitialize(t *testing.T) {
	// The init() no-op logger must absorb calls without panicking
	Info("pre-init info")
	Infof("pre-init %s", "infof")
	Error("pre-init error")
	Warnw("pre-init warn", "k", 1)
	Debugw("pre-init debug", "k", 2)
}
