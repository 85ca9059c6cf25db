package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// GetLiveryHandler handles GET /liveries/{id} requests.
type GetLiveryHandler struct {
	base
}

// NewGetLiveryHandler returns a GetLiveryHandler backed by the given services.
func NewGetLiveryHandler(svc *appsvcs.Services, log logger.Logger, production bool) *GetLiveryHandler {
	return &GetLiveryHandler{base: newBase(svc, log, production)}
}

// Execute returns a single listable livery.
//
//	@Summary	Get livery
//	@Tags		liveries
//	@Produce	json
//	@Param		id	path		string	true	"Livery id"
//	@Success	200	{object}	LiveryResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/liveries/{id} [get]
func (h *GetLiveryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := h.liveryID(w, r)
	if !ok {
		return
	}
	l, err := h.svc.Livery.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewLiveryResponse(l))
}
