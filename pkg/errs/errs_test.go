package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildErrorWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewBuildError("collins.dict", 12, io.ErrUnexpectedEOF))

	assert.ErrorIs(t, err, ErrBuild)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.NotErrorIs(t, err, ErrConfig)

	var be *BuildError
	if assert.True(t, errors.As(err, &be)) {
		assert.Equal(t, "collins.dict", be.Resource)
		assert.Equal(t, 12, be.Line)
	}
	assert.Contains(t, err.Error(), "collins.dict")
	assert.Contains(t, err.Error(), "entry 12")
}

func TestConfigError(t *testing.T) {
	assert.NoError(t, NonNegative("max_results", 0))

	err := NonNegative("max_results", -1)
	assert.ErrorIs(t, err, ErrConfig)
	assert.NotErrorIs(t, err, ErrBuild)
	assert.Contains(t, err.Error(), "max_results=-1")
}
