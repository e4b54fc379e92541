package service

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

// The four error kinds the core surfaces. Callers classify with errors.Is;
// everything in this package wraps one of these sentinels so the transport
// layer can map an error to a response without string matching.
var (
	ErrNotFound        = goerrors.New("not found")
	ErrInvalidArgument = goerrors.New("invalid argument")
	ErrUnauthorized    = goerrors.New("unauthorized")
	ErrConflict        = goerrors.New("conflict")
)

func notFoundf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func unauthorizedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnauthorized, format, args...)
}

func conflictf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConflict, format, args...)
}
