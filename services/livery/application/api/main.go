package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/liverylab/catalog/pkg/app"
	"github.com/liverylab/catalog/pkg/auth"
	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/services/livery/application/handlers"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
)

// LiveryRoutes registers livery catalog endpoints on the provided chi router.
// Listing and reads are public; everything scoped to an owner requires a session.
func LiveryRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	production := a.Config.Environment == config.EnvProduction

	r.Route("/liveries", func(r chi.Router) {
		r.Get("/", handlers.NewListLiveriesHandler(svcs, a.Logger, production).Execute)
		r.Get("/{id}", handlers.NewGetLiveryHandler(svcs, a.Logger, production).Execute)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			r.Get("/mine", handlers.NewListMyLiveriesHandler(svcs, a.Logger, production).Execute)
			r.Post("/", handlers.NewPostLiveryHandler(svcs, a.Logger, production).Execute)
			r.Delete("/{id}", handlers.NewDeleteLiveryHandler(svcs, a.Logger, production).Execute)
			r.Post("/{id}/collect", handlers.NewCollectLiveryHandler(svcs, a.Logger, production).Execute)
		})
	})

	if !production {
		session := handlers.NewSessionHandler(a.SessionStore)
		r.Post("/session", session.Create)
		r.Delete("/session", session.Delete)
	}
}
