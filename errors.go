package htm

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid spatial pooler configuration")
	ErrInvalidInput  = errors.New("invalid spatial pooler input")
	ErrCorruptState  = errors.New("corrupt spatial pooler state")
)

//Returned when construction parameters are invalid or inconsistent.
//No state is created when this is returned.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %v: %v", ErrConfiguration, e.Param, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

//Returned by compute when the input or output vector is malformed.
//The spatial pooler is left untouched.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidInput, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

//Returned when a snapshot can not be restored
type CorruptStateError struct {
	Reason string
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%v: %v", ErrCorruptState, e.Reason)
}

func (e *CorruptStateError) Unwrap() error {
	return ErrCorruptState
}

func configErrorf(param, format string, args ...interface{}) error {
	return &ConfigurationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

func inputErrorf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

func corruptErrorf(format string, args ...interface{}) error {
	return &CorruptStateError{Reason: fmt.Sprintf(format, args...)}
}
