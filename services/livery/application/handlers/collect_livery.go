package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// CollectLiveryHandler handles POST /liveries/{id}/collect requests.
type CollectLiveryHandler struct {
	base
}

// NewCollectLiveryHandler returns a CollectLiveryHandler backed by the given services.
func NewCollectLiveryHandler(svc *appsvcs.Services, log logger.Logger, production bool) *CollectLiveryHandler {
	return &CollectLiveryHandler{base: newBase(svc, log, production)}
}

// Execute adds a livery to the caller's collection.
//
//	@Summary	Collect livery
//	@Tags		liveries
//	@Param		id	path	string	true	"Livery id"
//	@Success	204
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/liveries/{id}/collect [post]
func (h *CollectLiveryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := h.liveryID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Livery.Collect(r.Context(), ownerID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.NoContent(w)
}
