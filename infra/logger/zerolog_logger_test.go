package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewZerologLogger(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	l := NewZerologLogger("test")
	assert.NotNil(t, l)
	assert.IsType(t, &ZerologLogger{}, l)
}

func TestNewZerologLoggerDev(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	assert.NotNil(t, l)
}

func TestLoggerMethods(t *testing.T) {
	for _, env := range []string{"dev", "production"} {
		t.Setenv("APP_ENV", env)
		l := New("test")
		l.Debugf("debug %s", "message")
		l.Debugw("debug", map[string]any{"key": "value"})
		l.Infof("info %d", 1)
		l.Warnf("warn %d", 2)
		l.Errorf("error %d", 3)
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("ignored")
	l.Debugw("ignored", nil)
	l.Infof("ignored")
	l.Warnf("ignored")
	l.Errorf("ignored")
}
