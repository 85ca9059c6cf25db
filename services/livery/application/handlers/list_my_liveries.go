package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// ListMyLiveriesHandler handles GET /liveries/mine requests.
type ListMyLiveriesHandler struct {
	base
}

// NewListMyLiveriesHandler returns a ListMyLiveriesHandler backed by the given services.
func NewListMyLiveriesHandler(svc *appsvcs.Services, log logger.Logger, production bool) *ListMyLiveriesHandler {
	return &ListMyLiveriesHandler{base: newBase(svc, log, production)}
}

// Execute returns one page of the caller's collection.
//
//	@Summary		List my collection
//	@Description	Pages through the authenticated owner's collection, most recently added first.
//	@Description	Accepts the same filters as GET /liveries; any ids parameter is ignored.
//	@Tags			liveries
//	@Produce		json
//	@Param			search		query		string	false	"Search token"
//	@Param			category	query		string	false	"Category"
//	@Param			scoreMin	query		int		false	"Minimum popularity score (1-5)"
//	@Param			cursor		query		string	false	"nextCursor of the previous page"
//	@Param			pageSize	query		int		false	"Page size (default 12, max 48)"
//	@Success		200			{object}	PageResponse
//	@Failure		401			{object}	ErrorResponse
//	@Failure		410			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/liveries/mine [get]
func (h *ListMyLiveriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	page, err := h.svc.Livery.ListMine(r.Context(), ownerID, r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewPageResponse(page))
}
