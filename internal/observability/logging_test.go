package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		" warn ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLogger_SatisfiesLogger(t *testing.T) {
	var l Logger = NewLogger("debug")
	l.Debugw("test message", "key", "value")
}

func TestEnvLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, "warn", EnvLogLevel("warn"))

	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, "debug", EnvLogLevel("warn"))
}
