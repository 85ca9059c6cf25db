package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/liverylab/catalog/pkg/auth"
	"github.com/liverylab/catalog/pkg/httpx"
	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
)

// CreateSessionRequest is the request body for POST /session.
type CreateSessionRequest struct {
	OwnerID string `json:"ownerId" validate:"required,opaqueid" example:"owner-42"`
} // @name CreateSessionRequest

// SessionHandler issues and revokes development sessions. It trusts the
// caller-supplied owner id and is only mounted outside production.
type SessionHandler struct {
	store sessions.Store
}

// NewSessionHandler returns a SessionHandler writing to store.
func NewSessionHandler(store sessions.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// Create starts a session for the given owner.
//
//	@Summary	Start development session
//	@Tags		session
//	@Accept		json
//	@Param		request	body	CreateSessionRequest	true	"Owner to impersonate"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/session [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateSessionRequest](w, r)
	if !ok {
		return
	}
	if err := auth.StartSession(h.store, w, r, req.OwnerID); err != nil {
		httpx.JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "could not start session"})
		return
	}
	httpx.NoContent(w)
}

// Delete ends the caller's session.
//
//	@Summary	End session
//	@Tags		session
//	@Success	204
//	@Router		/session [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := auth.EndSession(h.store, w, r); err != nil {
		httpx.JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "could not end session"})
		return
	}
	httpx.NoContent(w)
}
