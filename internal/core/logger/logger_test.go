package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToWriterForwardsLines(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	n, err := w.Write([]byte("slow sql 250ms\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("slow sql 250ms\n"), n)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "slow sql 250ms", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	}
}

func TestNewWithRotateBuilds(t *testing.T) {
	l, cleanup := NewWithRotate("debug", true, filepath.Join(t.TempDir(), "app.log"), 1, 1, 1, false)
	defer cleanup()
	l.Info("hello")
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
