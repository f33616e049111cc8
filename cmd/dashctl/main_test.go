package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPreRunKeepsLoggerFlush(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://%zz")
	t.Setenv("LOG_LEVEL", "error")

	before := zap.L()
	stale := false
	flushLogs = func() { stale = true }
	t.Cleanup(func() { flushLogs = func() {} })

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err, "an unparsable DSN must fail after the logger is installed")
	assert.NotSame(t, before, zap.L())

	flushLogs()
	assert.False(t, stale, "pre-run must replace the flush func")
	assert.Same(t, before, zap.L(), "flushing restores the previous global logger")
}

func TestPreRunRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	assert.ErrorContains(t, err, "DATABASE_URL")
}
