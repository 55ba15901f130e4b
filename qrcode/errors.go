package qrcode

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines error kinds.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindNotReady   ErrorKind = "not_ready"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
	KindNotImpl    ErrorKind = "not_implemented"
)

// User-facing messages.
const (
	MsgEmptyContent = "Please enter content first"
	MsgNotReady     = "QR Code not initialized. Please wait a moment."
	MsgExportFailed = "Error downloading QR code. Please try again."
)

// QRError wraps errors with a kind.
type QRError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *QRError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *QRError) Unwrap() error {
	return e.Err
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string, err error) *QRError {
	return &QRError{Kind: kind, Msg: msg, Err: err}
}

// ErrEmptyContent is returned when the form yields no payload.
var ErrEmptyContent = NewError(KindValidation, MsgEmptyContent, nil)

// ErrNotReady is returned while renderers are still warming up.
var ErrNotReady = NewError(KindNotReady, MsgNotReady, nil)

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var qrErr *QRError
	if errors.As(err, &qrErr) {
		kind = qrErr.Kind
		if qrErr.Msg != "" {
			msg = qrErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindNotReady:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_ready")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var qrErr *QRError
	if errors.As(err, &qrErr) {
		return qrErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
