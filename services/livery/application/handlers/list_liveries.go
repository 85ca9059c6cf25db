package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// ListLiveriesHandler handles GET /liveries requests.
type ListLiveriesHandler struct {
	base
}

// NewListLiveriesHandler returns a ListLiveriesHandler backed by the given services.
func NewListLiveriesHandler(svc *appsvcs.Services, log logger.Logger, production bool) *ListLiveriesHandler {
	return &ListLiveriesHandler{base: newBase(svc, log, production)}
}

// Execute returns one page of the catalog.
//
//	@Summary		List liveries
//	@Description	Keyset-paginated catalog listing. Unknown or malformed parameters are ignored.
//	@Description	An ids list scopes the listing to those liveries, in list order.
//	@Tags			liveries
//	@Produce		json
//	@Param			ids			query		string	false	"Comma-separated livery ids"
//	@Param			search		query		string	false	"Search token"
//	@Param			category	query		string	false	"Category"
//	@Param			scoreMin	query		int		false	"Minimum popularity score (1-5)"
//	@Param			sort		query		string	false	"Sort key"	Enums(createdAt, popularity)
//	@Param			direction	query		string	false	"Direction"	Enums(asc, desc)
//	@Param			cursor		query		string	false	"nextCursor of the previous page"
//	@Param			pageSize	query		int		false	"Page size (default 12, max 48)"
//	@Success		200			{object}	PageResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		410			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/liveries [get]
func (h *ListLiveriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Livery.List(r.Context(), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewPageResponse(page))
}
