package services

import (
	"github.com/liverylab/catalog/pkg/app"
	pkgcache "github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
	"github.com/liverylab/catalog/services/livery/infrastructure/persistence/cached"
	"github.com/liverylab/catalog/services/livery/infrastructure/persistence/memory"
	"github.com/liverylab/catalog/services/livery/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Livery *LiveryService
}

// New wires all livery application services with infrastructure from the Application container.
// STORE_BACKEND=memory runs against an empty in-process store.
func New(a *app.Application) *Services {
	var (
		store       repositories.LiveryStore
		repo        repositories.LiveryRepository
		collections repositories.CollectionRepository
	)

	if a.Config.StoreBackend == config.StoreMemory {
		mem := memory.NewStore()
		store, repo, collections = mem, mem, mem
	} else {
		store = postgres.NewLiveryStore(a.Db.Pool())
		repo = postgres.NewLiveryRepository(a.Db, a.EventBus)
		collections = postgres.NewCollectionRepository(a.Db.Pool())
		if a.Redis != nil {
			store = cached.NewStore(store, pkgcache.NewLiveryCache(a.Redis), a.Logger)
		}
	}

	return &Services{
		Livery: NewLiveryService(store, repo, collections, QueryOptionsFromConfig(a.Config), a.Logger),
	}
}
