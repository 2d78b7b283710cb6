// Package errs holds the error taxonomy shared by the lexicon, suggestion and config packages.
//
// Only construction can fail: a dictionary that cannot be built yields a BuildError and an
// invalid parameter yields a ConfigError. Checking a token never returns an error.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrBuild  = errors.New("lexicon build failed")
	ErrConfig = errors.New("invalid configuration")
)

// BuildError reports a dictionary source that is unreadable, malformed or empty.
type BuildError struct {
	Resource string
	// Line is the 1-based line or entry number of the fault, 0 when unknown.
	Line int
	Err  error
}

func (e *BuildError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("build %s (entry %d): %v", e.Resource, e.Line, e.Err)
	}
	return fmt.Sprintf("build %s: %v", e.Resource, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func (e *BuildError) Is(target error) bool {
	return target == ErrBuild
}

// NewBuildError wraps cause for resource. line may be 0.
func NewBuildError(resource string, line int, cause error) *BuildError {
	return &BuildError{Resource: resource, Line: line, Err: cause}
}

// BuildErrorf is NewBuildError with a formatted cause.
func BuildErrorf(resource string, line int, format string, args ...any) *BuildError {
	return NewBuildError(resource, line, fmt.Errorf(format, args...))
}

// ConfigError reports a rejected parameter, e.g. a negative result cap.
type ConfigError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrConfig, e.Param, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func NewConfigError(param string, value any, reason string) *ConfigError {
	return &ConfigError{Param: param, Value: value, Reason: reason}
}

// NonNegative returns a ConfigError when v < 0.
func NonNegative(param string, v int) error {
	if v < 0 {
		return NewConfigError(param, v, "must be >= 0")
	}
	return nil
}
