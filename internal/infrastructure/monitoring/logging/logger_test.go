package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger builds a Logger over an in-memory core so tests can
// assert on emitted entries.
func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format})
		require.NoError(t, err, "format %q", format)
		assert.NotNil(t, l)
	}
}

func TestZapLogger_EmitsFields(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("associated molecule",
		String("molecule_id", "173330"),
		Int("outputs", 3),
		Bool("has_sp", true),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "associated molecule", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "173330", fields["molecule_id"])
	assert.Equal(t, int64(3), fields["outputs"])
	assert.Equal(t, true, fields["has_sp"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger()

	child := l.With(String("directory", "10_20")).Named("aggregator")
	child.Warn("missing frequency output")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "aggregator", entries[0].LoggerName)
	assert.Equal(t, "10_20", entries[0].ContextMap()["directory"])

	// The parent is unaffected by With/Named on the child.
	l.Info("parent entry")
	assert.Equal(t, "", logs.All()[1].LoggerName)
}

func TestErrField(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
	assert.Equal(t, "error", Err(nil).Key)
	assert.Equal(t, assert.AnError.Error(), Err(assert.AnError).Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.NotNil(t, l.With(String("k", "v")))
	assert.NotNil(t, l.Named("x"))
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
