// Package handlers exposes the livery catalog over HTTP.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/liverylab/catalog/pkg/auth"
	"github.com/liverylab/catalog/pkg/errhttp"
	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/pkg/telemetry"
	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

const idParamTag = pkgvalidator.TagOpaqueID

// base carries what every livery handler needs.
type base struct {
	svc        *appsvcs.Services
	log        logger.Logger
	production bool
}

func newBase(svc *appsvcs.Services, log logger.Logger, production bool) base {
	return base{svc: svc, log: log, production: production}
}

// fail writes the mapped error response. Server-side failures are logged at
// error level and reported to Sentry; client errors only at warn.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errhttp.Status(err)
	args := []any{"method", r.Method, "path", r.URL.Path, "status", status, "error", err}
	if status >= http.StatusInternalServerError {
		b.log.ErrorContext(r.Context(), "livery request failed", args...)
		telemetry.CaptureError(r.Context(), err, telemetry.StatusTags(status, routePattern(r)))
	} else {
		b.log.WarnContext(r.Context(), "livery request rejected", args...)
	}
	errhttp.WriteErrorSafe(w, err, b.production)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// owner returns the authenticated owner or writes 401.
func (b base) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, err := auth.OwnerIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return "", false
	}
	return ownerID, true
}

// liveryID reads the {id} path parameter. Malformed ids cannot exist and
// are reported as not found.
func (b base) liveryID(w http.ResponseWriter, r *http.Request) (models.LiveryID, bool) {
	id := chi.URLParam(r, "id")
	if pkgvalidator.Var(id, idParamTag) != nil || id == "" {
		errhttp.WriteError(w, liverydomain.ErrLiveryNotFound)
		return "", false
	}
	return models.LiveryID(id), true
}
