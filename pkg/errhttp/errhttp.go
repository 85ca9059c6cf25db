// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to Status for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/liverylab/catalog/pkg/auth"
	"github.com/liverylab/catalog/pkg/httpx"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, Status(err), err.Error())
}

// WriteErrorSafe is WriteError with 5xx messages replaced by the status text
// when isProduction is set.
func WriteErrorSafe(w http.ResponseWriter, err error, isProduction bool) {
	status := Status(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, isProduction))
}

// Status returns the HTTP status err maps to.
func Status(err error) int {
	switch {
	case errors.Is(err, liverydomain.ErrLiveryNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, liverydomain.ErrLiveryAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, liverydomain.ErrInvalidLivery):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, liverydomain.ErrInvalidFilter):
		return http.StatusBadRequest // 400
	case errors.Is(err, liverydomain.ErrStaleCursor):
		return http.StatusGone // 410
	case errors.Is(err, auth.ErrOwnerIDNotFound):
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
