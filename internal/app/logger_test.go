package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLogger_Levels(t *testing.T) {
	dev := NewLogger("development", "")
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))

	prod := NewLogger("production", "")
	assert.False(t, prod.Core().Enabled(zap.DebugLevel))
	assert.True(t, prod.Core().Enabled(zap.InfoLevel))

	quiet := NewLogger("development", "warn")
	assert.False(t, quiet.Core().Enabled(zap.InfoLevel))
	assert.True(t, quiet.Core().Enabled(zap.WarnLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	assert.Panics(t, func() { NewLogger("production", "loud") })
}
