package logger

import (
	"testing"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })

	require.NoError(t, Setup("", false))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	require.NoError(t, Setup("error", false))
	assert.Equal(t, log.ErrorLevel, log.GetLevel())

	require.NoError(t, Setup("error", true))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.ErrorIs(t, Setup("loud", false), errs.ErrConfig)
}

func TestNewInheritsLevel(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })
	log.SetLevel(log.ErrorLevel)

	l := New("rule")
	assert.Equal(t, log.ErrorLevel, l.GetLevel())
	assert.Equal(t, "rule", l.GetPrefix())
}
