package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingLogger struct {
	records []string
}

func (r *recordingLogger) record(level, msg string) {
	r.records = append(r.records, level+": "+msg)
}

func (r *recordingLogger) Debug(msg string) { r.record("debug", msg) }
func (r *recordingLogger) Info(msg string)  { r.record("info", msg) }
func (r *recordingLogger) Warn(msg string)  { r.record("warn", msg) }
func (r *recordingLogger) Error(msg string) { r.record("error", msg) }

func TestNew(t *testing.T) {
	t.Run("existing Logger passes through unchanged", func(t *testing.T) {
		rec := &recordingLogger{}
		got := New(rec)
		assert.Same(t, Logger(rec), got)
	})

	t.Run("message callback receives every level", func(t *testing.T) {
		var messages []string
		l := New(func(msg string) {
			messages = append(messages, msg)
		})

		l.Debug("d")
		l.Info("i")
		l.Warn("w")
		l.Error("e")

		assert.Equal(t, []string{"d", "i", "w", "e"}, messages)
	})

	t.Run("nil capability yields a usable sink", func(t *testing.T) {
		l := New(nil)
		require.NotNil(t, l)
		// all levels must be safe to call
		l.Debug("d")
		l.Info("i")
		l.Warn("w")
		l.Error("e")
	})

	t.Run("unrecognized capability falls back to the default sink", func(t *testing.T) {
		l := New(42)
		require.NotNil(t, l)
		l.Info("still works")
	})
}

func TestFromZap(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	entries := observed.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "d", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "e", entries[3].Message)
}

func TestFormattingHelpers(t *testing.T) {
	rec := &recordingLogger{}

	Debugf(rec, "fetching %s", "Genesis 1")
	Infof(rec, "%d results", 3)
	Warnf(rec, "slow response: %v", "2s")
	Errorf(rec, "request failed: %s", "timeout")

	assert.Equal(t, []string{
		"debug: fetching Genesis 1",
		"info: 3 results",
		"warn: slow response: 2s",
		"error: request failed: timeout",
	}, rec.records)
}
