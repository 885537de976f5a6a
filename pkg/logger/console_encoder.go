package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorReset   = "\x1b[0m"
)

var _bufferPool = buffer.NewPool()

// colorConsoleEncoder implements zapcore.Encoder for customized console output,
// with a short contextual prefix (run id, step id) ahead of the message.
type colorConsoleEncoder struct {
	zapcore.EncoderConfig
	colors       bool
	loggerOpts   Options
	levelStrings map[Level]string
}

// NewColorConsoleEncoder creates a new console encoder that uses colors.
func NewColorConsoleEncoder(cfg zapcore.EncoderConfig, opts Options) zapcore.Encoder {
	return &colorConsoleEncoder{
		EncoderConfig: cfg,
		colors:        true,
		loggerOpts:    opts,
		levelStrings:  cacheLevelStrings(opts.ColorConsole),
	}
}

// NewPlainTextConsoleEncoder creates a new console encoder without colors.
func NewPlainTextConsoleEncoder(cfg zapcore.EncoderConfig, opts Options) zapcore.Encoder {
	return &colorConsoleEncoder{
		EncoderConfig: cfg,
		colors:        false,
		loggerOpts:    opts,
		levelStrings:  cacheLevelStrings(false),
	}
}

func cacheLevelStrings(color bool) map[Level]string {
	m := make(map[Level]string)
	for _, l := range []Level{DebugLevel, InfoLevel, SuccessLevel, WarnLevel, ErrorLevel, FailLevel, PanicLevel, FatalLevel} {
		str := fmt.Sprintf("[%s]", l.CapitalString())
		if color {
			m[l] = levelToColor(l, str)
		} else {
			m[l] = str
		}
	}
	return m
}

func (enc *colorConsoleEncoder) Clone() zapcore.Encoder {
	return &colorConsoleEncoder{
		EncoderConfig: enc.EncoderConfig,
		colors:        enc.colors,
		loggerOpts:    enc.loggerOpts,
		levelStrings:  enc.levelStrings,
	}
}

// The ObjectEncoder surface is a no-op: EncodeEntry reads the fields slice
// directly rather than accumulating into an internal buffer.
func (enc *colorConsoleEncoder) OpenNamespace(key string)                                   {}
func (enc *colorConsoleEncoder) AddArray(string, zapcore.ArrayMarshaler) error               { return nil }
func (enc *colorConsoleEncoder) AddObject(string, zapcore.ObjectMarshaler) error             { return nil }
func (enc *colorConsoleEncoder) AddBinary(string, []byte)                                    {}
func (enc *colorConsoleEncoder) AddByteString(string, []byte)                                {}
func (enc *colorConsoleEncoder) AddBool(string, bool)                                        {}
func (enc *colorConsoleEncoder) AddComplex128(string, complex128)                             {}
func (enc *colorConsoleEncoder) AddComplex64(string, complex64)                               {}
func (enc *colorConsoleEncoder) AddDuration(string, time.Duration)                            {}
func (enc *colorConsoleEncoder) AddFloat64(string, float64)                                   {}
func (enc *colorConsoleEncoder) AddFloat32(string, float32)                                   {}
func (enc *colorConsoleEncoder) AddInt(string, int)                                           {}
func (enc *colorConsoleEncoder) AddInt64(string, int64)                                       {}
func (enc *colorConsoleEncoder) AddInt32(string, int32)                                       {}
func (enc *colorConsoleEncoder) AddInt16(string, int16)                                       {}
func (enc *colorConsoleEncoder) AddInt8(string, int8)                                         {}
func (enc *colorConsoleEncoder) AddString(string, string)                                     {}
func (enc *colorConsoleEncoder) AddTime(string, time.Time)                                    {}
func (enc *colorConsoleEncoder) AddUint(string, uint)                                         {}
func (enc *colorConsoleEncoder) AddUint64(string, uint64)                                      {}
func (enc *colorConsoleEncoder) AddUint32(string, uint32)                                      {}
func (enc *colorConsoleEncoder) AddUint16(string, uint16)                                      {}
func (enc *colorConsoleEncoder) AddUint8(string, uint8)                                        {}
func (enc *colorConsoleEncoder) AddUintptr(string, uintptr)                                    {}
func (enc *colorConsoleEncoder) AddReflected(string, interface{}) error                        { return nil }

func (enc *colorConsoleEncoder) AppendArray(zapcore.ArrayMarshaler) error   { return nil }
func (enc *colorConsoleEncoder) AppendObject(zapcore.ObjectMarshaler) error { return nil }
func (enc *colorConsoleEncoder) AppendBool(bool)                           {}
func (enc *colorConsoleEncoder) AppendByteString([]byte)                   {}
func (enc *colorConsoleEncoder) AppendBinary([]byte)                       {}
func (enc *colorConsoleEncoder) AppendComplex128(complex128)               {}
func (enc *colorConsoleEncoder) AppendComplex64(complex64)                 {}
func (enc *colorConsoleEncoder) AppendDuration(time.Duration)              {}
func (enc *colorConsoleEncoder) AppendFloat64(float64)                     {}
func (enc *colorConsoleEncoder) AppendFloat32(float32)                     {}
func (enc *colorConsoleEncoder) AppendInt(int)                             {}
func (enc *colorConsoleEncoder) AppendInt64(int64)                        {}
func (enc *colorConsoleEncoder) AppendInt32(int32)                        {}
func (enc *colorConsoleEncoder) AppendInt16(int16)                        {}
func (enc *colorConsoleEncoder) AppendInt8(int8)                          {}
func (enc *colorConsoleEncoder) AppendString(string)                      {}
func (enc *colorConsoleEncoder) AppendTime(time.Time)                     {}
func (enc *colorConsoleEncoder) AppendUint(uint)                          {}
func (enc *colorConsoleEncoder) AppendUint64(uint64)                      {}
func (enc *colorConsoleEncoder) AppendUint32(uint32)                      {}
func (enc *colorConsoleEncoder) AppendUint16(uint16)                      {}
func (enc *colorConsoleEncoder) AppendUint8(uint8)                        {}
func (enc *colorConsoleEncoder) AppendUintptr(uintptr)                    {}

// orderedContextKeys controls which structured fields get hoisted into the
// short bracketed prefix (e.g. "[run:3f2a][step:000002]") ahead of the message.
var orderedContextKeys = []string{"run_id", "step_id", "action"}

var contextKeyShortNames = map[string]string{
	"run_id":  "run",
	"step_id": "step",
	"action":  "action",
}

// EncodeEntry formats one log entry as a single line for the console.
func (enc *colorConsoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := _bufferPool.Get()

	if enc.TimeKey != "" {
		line.AppendString(ent.Time.Format(enc.loggerOpts.TimestampFormat))
		line.AppendString(" ")
	}

	contextValues := make(map[string]string)
	remaining := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		matched := false
		for _, k := range orderedContextKeys {
			if f.Key == k {
				contextValues[k] = f.String
				matched = true
				break
			}
		}
		if !matched && f.Key != "customlevel" && f.Key != "customlevel_num" {
			remaining = append(remaining, f)
		}
	}

	var prefix strings.Builder
	for _, k := range orderedContextKeys {
		if v, ok := contextValues[k]; ok && v != "" {
			prefix.WriteString(fmt.Sprintf("[%s:%s]", contextKeyShortNames[k], v))
		}
	}
	if prefix.Len() > 0 {
		line.AppendString(prefix.String())
		line.AppendString(" ")
	}

	levelStr := ""
	level := InfoLevel
	for _, f := range fields {
		if f.Key == "customlevel" && f.Type == zapcore.StringType {
			switch strings.ToUpper(f.String) {
			case "DEBUG":
				level = DebugLevel
			case "INFO":
				level = InfoLevel
			case "SUCCESS":
				level = SuccessLevel
			case "WARN":
				level = WarnLevel
			case "ERROR":
				level = ErrorLevel
			case "FAIL":
				level = FailLevel
			case "PANIC":
				level = PanicLevel
			case "FATAL":
				level = FatalLevel
			}
			levelStr = enc.levelStrings[level]
			break
		}
	}
	if levelStr == "" {
		text := fmt.Sprintf("[%s]", strings.ToUpper(ent.Level.String()))
		if enc.colors {
			levelStr = levelToColorZap(ent.Level, text)
		} else {
			levelStr = text
		}
	}
	line.AppendString(levelStr)
	line.AppendString(" ")

	if enc.CallerKey != "" && ent.Caller.Defined && enc.EncodeCaller != nil {
		callerEnc := &tempEncoder{buf: _bufferPool.Get(), EncoderConfig: enc.EncoderConfig}
		enc.EncodeCaller(ent.Caller, callerEnc)
		line.AppendString(callerEnc.buf.String())
		callerEnc.buf.Free()
		line.AppendString(": ")
	}

	line.AppendString(ent.Message)

	for _, f := range remaining {
		line.AppendString(" ")
		line.AppendString(f.Key)
		line.AppendString("=")
		switch f.Type {
		case zapcore.StringType:
			if strings.ContainsAny(f.String, " \t") || f.String == "" {
				fmt.Fprintf(line, "%q", f.String)
			} else {
				line.AppendString(f.String)
			}
		case zapcore.ErrorType:
			if f.Interface != nil {
				fmt.Fprintf(line, "%q", f.Interface.(error).Error())
			} else {
				line.AppendString("nil")
			}
		case zapcore.BoolType:
			line.AppendBool(f.Integer == 1)
		case zapcore.Int8Type, zapcore.Int16Type, zapcore.Int32Type, zapcore.Int64Type:
			line.AppendInt(f.Integer)
		case zapcore.Uint8Type, zapcore.Uint16Type, zapcore.Uint32Type, zapcore.Uint64Type, zapcore.UintptrType:
			line.AppendUint(uint64(f.Integer))
		default:
			fmt.Fprintf(line, "%v", f.Interface)
		}
	}

	line.AppendString(enc.LineEnding)
	return line, nil
}

// tempEncoder is a minimal zapcore.PrimitiveArrayEncoder used only to capture
// the string produced by an EncodeCallerFunc callback.
type tempEncoder struct {
	zapcore.EncoderConfig
	buf *buffer.Buffer
}

func (t *tempEncoder) AppendString(s string)     { t.buf.AppendString(s) }
func (t *tempEncoder) AddString(_ string, s string) { t.buf.AppendString(s) }
func (t *tempEncoder) AppendBool(bool)                     {}
func (t *tempEncoder) AppendByteString([]byte)              {}
func (t *tempEncoder) AppendComplex128(complex128)          {}
func (t *tempEncoder) AppendComplex64(complex64)            {}
func (t *tempEncoder) AppendDuration(time.Duration)         {}
func (t *tempEncoder) AppendFloat64(float64)                {}
func (t *tempEncoder) AppendFloat32(float32)                {}
func (t *tempEncoder) AppendInt(int)                        {}
func (t *tempEncoder) AppendInt64(int64)                    {}
func (t *tempEncoder) AppendInt32(int32)                     {}
func (t *tempEncoder) AppendInt16(int16)                     {}
func (t *tempEncoder) AppendInt8(int8)                       {}
func (t *tempEncoder) AppendUint(uint)                       {}
func (t *tempEncoder) AppendUint64(uint64)                   {}
func (t *tempEncoder) AppendUint32(uint32)                   {}
func (t *tempEncoder) AppendUint16(uint16)                   {}
func (t *tempEncoder) AppendUint8(uint8)                     {}
func (t *tempEncoder) AppendUintptr(uintptr)                 {}

func levelToColor(level Level, message string) string {
	switch level {
	case DebugLevel:
		return colorMagenta + message + colorReset
	case SuccessLevel:
		return colorGreen + message + colorReset
	case WarnLevel:
		return colorYellow + message + colorReset
	case ErrorLevel, FailLevel, FatalLevel:
		return colorRed + message + colorReset
	case PanicLevel:
		return colorCyan + message + colorReset
	default:
		return message
	}
}

func levelToColorZap(level zapcore.Level, message string) string {
	switch level {
	case zapcore.DebugLevel:
		return colorMagenta + message + colorReset
	case zapcore.WarnLevel:
		return colorYellow + message + colorReset
	case zapcore.ErrorLevel, zapcore.FatalLevel:
		return colorRed + message + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return colorCyan + message + colorReset
	default:
		return message
	}
}
