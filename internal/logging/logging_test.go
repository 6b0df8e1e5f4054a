package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestComponentFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).Component("dedup")

	log.Warn("persist failed", "link", "https://x.test/1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "persist failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "dedup", fields["component"])
	assert.Equal(t, "https://x.test/1", fields["link"])
}

func TestNewAndNop(t *testing.T) {
	assert.NotNil(t, New("info", "console"))
	assert.NotNil(t, New("debug", "json"))
	NewNop().Info("dropped")
}
