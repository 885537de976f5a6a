package logger

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestEncoderConfig(opts Options) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(opts.TimestampFormat),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func TestColorConsoleEncoder_Clone(t *testing.T) {
	opts := DefaultOptions()
	opts.ColorConsole = true
	opts.TimestampFormat = "custom-format"
	cfg := newTestEncoderConfig(opts)
	originalEncoder := NewColorConsoleEncoder(cfg, opts).(*colorConsoleEncoder)

	clonedEncoder := originalEncoder.Clone().(*colorConsoleEncoder)

	assert.NotSame(t, originalEncoder, clonedEncoder, "Clone should return a new instance")
	assert.Equal(t, originalEncoder.EncoderConfig.MessageKey, clonedEncoder.EncoderConfig.MessageKey)
	assert.Equal(t, originalEncoder.EncoderConfig.LevelKey, clonedEncoder.EncoderConfig.LevelKey)
	assert.Equal(t, originalEncoder.EncoderConfig.TimeKey, clonedEncoder.EncoderConfig.TimeKey)
	assert.Equal(t, originalEncoder.colors, clonedEncoder.colors, "colors field should be copied")
	assert.Equal(t, originalEncoder.loggerOpts, clonedEncoder.loggerOpts, "loggerOpts should be copied (it's a struct, so value copy)")
	assert.Equal(t, originalEncoder.levelStrings, clonedEncoder.levelStrings, "levelStrings map should be same (it's a reference, but points to the same map data)")

	clonedEncoder.loggerOpts.TimestampFormat = "clone-modified-format"
	assert.Equal(t, "custom-format", originalEncoder.loggerOpts.TimestampFormat, "Modifying clone's loggerOpts.TimestampFormat should not affect original's")
	assert.Equal(t, true, clonedEncoder.colors, "Cloned colors value mismatch")
}

func TestColorConsoleEncoder_EncodeEntry(t *testing.T) {
	opts := DefaultOptions()
	opts.TimestampFormat = "2006-01-02 15:04:05"
	cfg := newTestEncoderConfig(opts)
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := zapcore.Entry{
		Time:    now,
		Message: "Test message",
		Caller:  zapcore.EntryCaller{Defined: true, File: "test/file.go", Line: 42},
	}

	tests := []struct {
		name           string
		colors         bool
		level          Level
		zapLevel       zapcore.Level
		withFields     []zapcore.Field
		logFields      []zapcore.Field
		expectedPrefix string
		expectedLevel  string
		expectedSuffix string
	}{
		{
			name:           "Info level with color and context",
			colors:         true,
			level:          InfoLevel,
			zapLevel:       zapcore.InfoLevel,
			withFields:     []zap.Field{zap.String("run_id", "run-1"), zap.String("step_id", "000001")},
			logFields:      []zap.Field{zap.String("data", "payload")},
			expectedPrefix: "[run:run-1][step:000001]",
			expectedLevel:  "[INFO]",
			expectedSuffix: ` data=payload`,
		},
		{
			name:           "Success level with color",
			colors:         true,
			level:          SuccessLevel,
			zapLevel:       zapcore.InfoLevel,
			logFields:      []zap.Field{zap.Int("count", 5)},
			expectedPrefix: "",
			expectedLevel:  colorGreen + "[SUCCESS]" + colorReset,
			expectedSuffix: " count=5",
		},
		{
			name:           "Error level plain text",
			colors:         false,
			level:          ErrorLevel,
			zapLevel:       zapcore.ErrorLevel,
			logFields:      []zap.Field{zap.Error(fmt.Errorf("test error"))},
			expectedPrefix: "",
			expectedLevel:  "[ERROR]",
			expectedSuffix: ` error="test error"`,
		},
		{
			name:     "Fail level with color and run/step/action context",
			colors:   true,
			level:    FailLevel,
			zapLevel: zapcore.FatalLevel,
			withFields: []zap.Field{
				zap.String("run_id", "run-9"),
				zap.String("step_id", "000007"),
				zap.String("action", "create-farm"),
			},
			expectedPrefix: "[run:run-9][step:000007][action:create-farm]",
			expectedLevel:  colorRed + "[FAIL]" + colorReset,
			expectedSuffix: "",
		},
		{
			name:           "Debug with no color",
			colors:         false,
			level:          DebugLevel,
			zapLevel:       zapcore.DebugLevel,
			logFields:      []zap.Field{zap.String("detail", "more info")},
			expectedPrefix: "",
			expectedLevel:  "[DEBUG]",
			expectedSuffix: ` detail="more info"`,
		},
		{
			name:           "Zap InfoLevel when customlevel not present",
			colors:         true,
			zapLevel:       zapcore.InfoLevel,
			expectedPrefix: "",
			expectedLevel:  "[INFO]",
			expectedSuffix: "",
		},
		{
			name:           "Zap WarnLevel with color",
			colors:         true,
			zapLevel:       zapcore.WarnLevel,
			expectedPrefix: "",
			expectedLevel:  colorYellow + "[WARN]" + colorReset,
			expectedSuffix: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enc zapcore.Encoder
			currentOpts := opts
			currentOpts.ColorConsole = tt.colors
			if tt.colors {
				enc = NewColorConsoleEncoder(cfg, currentOpts)
			} else {
				enc = NewPlainTextConsoleEncoder(cfg, currentOpts)
			}

			allTestFields := append([]zapcore.Field{}, tt.withFields...)
			if tt.level != 0 {
				allTestFields = append(allTestFields, zap.String("customlevel", tt.level.CapitalString()))
			}
			allTestFields = append(allTestFields, tt.logFields...)

			currentEntry := entry
			currentEntry.Level = tt.zapLevel

			buf, err := enc.EncodeEntry(currentEntry, allTestFields)
			assert.NoError(t, err)
			if err != nil {
				return
			}
			logOutput := buf.String()
			buf.Free()

			var parts []string
			parts = append(parts, now.Format(opts.TimestampFormat))
			if tt.expectedPrefix != "" {
				parts = append(parts, tt.expectedPrefix)
			}
			parts = append(parts, tt.expectedLevel)
			parts = append(parts, "test/file.go:42:")
			parts = append(parts, entry.Message)

			var expected strings.Builder
			for i, p := range parts {
				expected.WriteString(p)
				if i < len(parts)-1 {
					expected.WriteString(" ")
				}
			}
			if tt.expectedSuffix != "" {
				expected.WriteString(tt.expectedSuffix)
			}
			expected.WriteString(zapcore.DefaultLineEnding)

			assert.Equal(t, expected.String(), logOutput)
		})
	}
}

func TestTempEncoder(t *testing.T) {
	opts := DefaultOptions()
	cfg := newTestEncoderConfig(opts)
	buf := _bufferPool.Get()
	defer buf.Free()

	enc := &tempEncoder{buf: buf, EncoderConfig: cfg}
	enc.AppendString("test/caller.go:123")
	assert.Equal(t, "test/caller.go:123", buf.String())
}
