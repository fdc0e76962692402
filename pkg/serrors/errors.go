package serrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jacksonlee411/office-ops/pkg/constants"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindInternal   Kind = "internal"
)

// BaseError is a coded error whose message is safe to show to callers.
type BaseError struct {
	Kind    Kind
	Code    string
	Message string
	Meta    map[string]string
	cause   error
}

func NewError(kind Kind, code, message string) *BaseError {
	return &BaseError{Kind: kind, Code: code, Message: message}
}

func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so sentinel copies carrying meta still compare equal.
func (e *BaseError) Is(target error) bool {
	var t *BaseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func (e *BaseError) Unwrap() error {
	return e.cause
}

// WithMeta returns a copy carrying extra caller-facing details.
func (e *BaseError) WithMeta(meta map[string]string) *BaseError {
	cp := *e
	cp.Meta = make(map[string]string, len(e.Meta)+len(meta))
	for k, v := range e.Meta {
		cp.Meta[k] = v
	}
	for k, v := range meta {
		cp.Meta[k] = v
	}
	return &cp
}

// WithMessage returns a copy with a more specific message.
func (e *BaseError) WithMessage(format string, args ...any) *BaseError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap attaches an underlying cause that is logged but never rendered.
func (e *BaseError) Wrap(cause error) *BaseError {
	cp := *e
	cp.cause = cause
	return &cp
}

// KindOf reports the kind of the first BaseError in the chain.
func KindOf(err error) Kind {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// ValidationErrors maps a field name to its human readable problem.
type ValidationErrors map[string]string

var ErrValidation = NewError(KindValidation, "VALIDATION_FAILED", "validation failed")

func (v ValidationErrors) AsError() *BaseError {
	keys := make([]string, 0, len(v))
	for k, msg := range v {
		keys = append(keys, k+": "+msg)
	}
	meta := make(map[string]string, len(v))
	for k, msg := range v {
		meta[k] = msg
	}
	msg := "validation failed"
	if len(keys) == 1 {
		msg = keys[0]
	}
	return ErrValidation.WithMessage("%s", msg).WithMeta(meta)
}

func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Translate(constants.Translator)
	}
	return out
}
