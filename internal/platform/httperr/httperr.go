// Package httperr defines the error taxonomy shared by all adapters and the
// central Echo error handler that maps each kind to a distinct HTTP status
// and machine-readable code. Adapters return these typed errors; handlers
// let them propagate instead of stringifying them.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// KindInternal is the fallback for unclassified errors.
	KindInternal Kind = iota
	// KindValidation marks malformed input rejected before any outbound call.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist,
	// off-chain or on-chain.
	KindNotFound
	// KindConflict marks an insert that violates a uniqueness invariant.
	KindConflict
	// KindUpstream marks an unreachable or failing external service
	// (gateway, database, chain node).
	KindUpstream
	// KindTxRejected marks a transaction the chain accepted but whose
	// execution failed; the detail carries the chain's reason.
	KindTxRejected
)

// Error is a typed error carrying a taxonomy kind and a client-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns a conflict error with a formatted message.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a failure from an external dependency.
func Upstream(err error, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...), Err: err}
}

// TxRejected wraps an on-chain execution failure. vmStatus is the chain's
// stated reason and is surfaced to the client verbatim.
func TxRejected(vmStatus string) *Error {
	return &Error{Kind: KindTxRejected, Message: fmt.Sprintf("transaction rejected by chain: %s", vmStatus)}
}

// Internal wraps an unclassified error.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// status and code return the HTTP mapping for a kind.
func (k Kind) status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	case KindTxRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) code() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	case KindTxRejected:
		return "tx_rejected"
	default:
		return "internal"
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Body returns the wire envelope for a code/message pair. Responses written
// outside the central handler, such as by middleware, use it so the error
// shape has one owner.
func Body(code, message string) any {
	return errorEnvelope{Error: errorBody{Code: code, Message: message}}
}

// Handler returns an echo.HTTPErrorHandler that renders typed errors as
// {"error": {"code": ..., "message": ...}} with the status mapped from the
// error's kind. Plain echo.HTTPError values (e.g. 404 from the router) keep
// their status; everything else is a 500 with the detail logged, not leaked.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Code: "internal", Message: "internal server error"}

		var typed *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &typed):
			status = typed.Kind.status()
			body.Code = typed.Kind.code()
			body.Message = typed.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			body.Code = codeForStatus(httpErr.Code)
			body.Message = fmt.Sprintf("%v", httpErr.Message)
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorEnvelope{Error: body})
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "internal"
	}
}
