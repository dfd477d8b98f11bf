package edm

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package and by the exporter
// matches exactly one of them under errors.Is.
var (
	ErrInputValidation = stderrors.New("invalid input")
	ErrResource        = stderrors.New("resource error")
	ErrIO              = stderrors.New("io error")
)

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string        { return e.kind.Error() + ": " + e.err.Error() }
func (e *kindError) Unwrap() error        { return e.err }
func (e *kindError) Is(target error) bool { return target == e.kind }

// InvalidInput returns an ErrInputValidation error with a formatted message.
func InvalidInput(format string, args ...interface{}) error {
	return &kindError{kind: ErrInputValidation, err: errors.Errorf(format, args...)}
}

// WrapInvalid tags err as ErrInputValidation with context.
func WrapInvalid(err error, format string, args ...interface{}) error {
	return &kindError{kind: ErrInputValidation, err: errors.Wrapf(err, format, args...)}
}

// WrapResource tags err as ErrResource with context.
func WrapResource(err error, format string, args ...interface{}) error {
	return &kindError{kind: ErrResource, err: errors.Wrapf(err, format, args...)}
}

// WrapIO tags err as ErrIO with context.
func WrapIO(err error, format string, args ...interface{}) error {
	return &kindError{kind: ErrIO, err: errors.Wrapf(err, format, args...)}
}
