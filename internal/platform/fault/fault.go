// Package fault classifies failures into the three outcomes the API
// distinguishes: validation (rejected before any storage access), not-found
// (storage matched zero rows), and storage (the storage call itself failed).
package fault

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindStorage
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid reports a request rejected before any storage access.
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports an update/delete/lookup that matched zero rows.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a failed storage call. Already-classified errors pass
// through unchanged so a not-found inside a transaction keeps its kind.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: KindStorage, Msg: "storage operation failed", Err: err}
}

func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool { k, ok := KindOf(err); return ok && k == KindValidation }
func IsNotFound(err error) bool   { k, ok := KindOf(err); return ok && k == KindNotFound }
func IsStorage(err error) bool    { k, ok := KindOf(err); return ok && k == KindStorage }

// Respond writes the error to the client. Validation and not-found errors
// carry their message; storage errors surface as a generic 500 so internal
// detail never leaks.
func Respond(c echo.Context, err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		switch fe.Kind {
		case KindValidation:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": fe.Msg,
			})
		case KindNotFound:
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"message": fe.Msg,
			})
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
