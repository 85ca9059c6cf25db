package handlers

import (
	"net/http"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// CreateLiveryRequest is the request body for POST /liveries.
type CreateLiveryRequest struct {
	Name     string   `json:"name"     validate:"required,min=3,max=120"                      example:"Gulf Heritage"`
	Category string   `json:"category" validate:"required,printascii,lowercase,max=64"        example:"gt3"`
	Tags     []string `json:"tags"     validate:"max=16,dive,required,max=32"                 example:"blue,orange"`
} // @name CreateLiveryRequest

// PostLiveryHandler handles POST /liveries requests.
type PostLiveryHandler struct {
	base
}

// NewPostLiveryHandler returns a PostLiveryHandler backed by the given services.
func NewPostLiveryHandler(svc *appsvcs.Services, log logger.Logger, production bool) *PostLiveryHandler {
	return &PostLiveryHandler{base: newBase(svc, log, production)}
}

// Execute creates a new livery owned by the caller and adds it to their collection.
//
//	@Summary		Create livery
//	@Description	Creates a livery; search tokens are derived from name, category and tags.
//	@Tags			liveries
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateLiveryRequest	true	"Livery creation request"
//	@Success		201		{object}	LiveryResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/liveries [post]
func (h *PostLiveryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateLiveryRequest](w, r)
	if !ok {
		return
	}

	l, err := h.svc.Livery.Create(r.Context(), ownerID, appsvcs.CreateLiveryInput{
		Name:     req.Name,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, NewLiveryResponse(l))
}
