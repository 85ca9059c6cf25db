// Package client is the browsing side of the catalog: a per-context page
// cache and the infinite-scroll controller that fills it.
package client

// BrowsingContext identifies an independent browsing surface. Each context
// keeps its own filters, accumulated items and scroll position.
type BrowsingContext int

const (
	// ContextCatalog is the public catalog.
	ContextCatalog BrowsingContext = iota
	// ContextMyCollection is the signed-in owner's collection.
	ContextMyCollection
	// ContextOwnerCollection is another owner's collection, browsed by id list.
	ContextOwnerCollection
)

// AllContexts returns every browsing context.
func AllContexts() []BrowsingContext {
	return []BrowsingContext{ContextCatalog, ContextMyCollection, ContextOwnerCollection}
}

func (c BrowsingContext) String() string {
	switch c {
	case ContextCatalog:
		return "catalog"
	case ContextMyCollection:
		return "my_collection"
	case ContextOwnerCollection:
		return "owner_collection"
	default:
		return "unknown"
	}
}
