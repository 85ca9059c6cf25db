package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
)

const sessionName = "livery_catalog_session"
const sessionOwnerIDKey = "owner_id"

// ownerIDTag constrains owner ids read back from a session.
const ownerIDTag = "required," + pkgvalidator.TagOpaqueID

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the owner ID, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid owner_id.
//
// After this middleware, handlers can safely call auth.OwnerIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ownerID, ok := session.Values[sessionOwnerIDKey].(string)
			if !ok || ownerID == "" {
				log.WarnContext(r.Context(), "session missing owner_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			if err := pkgvalidator.Var(ownerID, ownerIDTag); err != nil {
				log.WarnContext(r.Context(), "invalid owner_id in session", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := WithOwnerID(r.Context(), ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StartSession binds ownerID to the caller's session and writes the cookie.
func StartSession(store sessions.Store, w http.ResponseWriter, r *http.Request, ownerID string) error {
	if err := pkgvalidator.Var(ownerID, ownerIDTag); err != nil {
		return err
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Values[sessionOwnerIDKey] = ownerID
	return session.Save(r, w)
}

// EndSession expires the caller's session.
func EndSession(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return err
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
