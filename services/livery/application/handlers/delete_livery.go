package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// DeleteLiveryHandler handles DELETE /liveries/{id} requests.
type DeleteLiveryHandler struct {
	base
}

// NewDeleteLiveryHandler returns a DeleteLiveryHandler backed by the given services.
func NewDeleteLiveryHandler(svc *appsvcs.Services, log logger.Logger, production bool) *DeleteLiveryHandler {
	return &DeleteLiveryHandler{base: newBase(svc, log, production)}
}

// Execute soft-deletes a livery owned by the caller.
//
//	@Summary	Delete livery
//	@Tags		liveries
//	@Param		id	path	string	true	"Livery id"
//	@Success	204
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/liveries/{id} [delete]
func (h *DeleteLiveryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := h.liveryID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Livery.Delete(r.Context(), ownerID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}
