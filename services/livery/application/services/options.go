package services

import "github.com/liverylab/catalog/pkg/config"

// QueryOptions tunes the catalog query engine.
type QueryOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxScopeIDs     int
	// BatchGetChunk is the largest id list sent to a single BatchGet call.
	BatchGetChunk int
	// BatchFanout bounds concurrent BatchGet calls within one scan iteration.
	BatchFanout int
	// StrictCursor turns an unknown batch-scan cursor into ErrStaleCursor
	// instead of restarting from the first scope id.
	StrictCursor bool
}

// DefaultQueryOptions mirrors the config defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		DefaultPageSize: 12,
		MaxPageSize:     48,
		MaxScopeIDs:     5000,
		BatchGetChunk:   10,
		BatchFanout:     4,
	}
}

// QueryOptionsFromConfig reads the CATALOG_* settings, falling back to
// defaults for non-positive values.
func QueryOptionsFromConfig(cfg *config.Config) QueryOptions {
	o := DefaultQueryOptions()
	if cfg.CatalogDefaultPageSize > 0 {
		o.DefaultPageSize = cfg.CatalogDefaultPageSize
	}
	if cfg.CatalogMaxPageSize > 0 {
		o.MaxPageSize = cfg.CatalogMaxPageSize
	}
	if cfg.CatalogMaxScopeIDs > 0 {
		o.MaxScopeIDs = cfg.CatalogMaxScopeIDs
	}
	if cfg.CatalogBatchGetChunk > 0 {
		o.BatchGetChunk = cfg.CatalogBatchGetChunk
	}
	if cfg.CatalogBatchFanout > 0 {
		o.BatchFanout = cfg.CatalogBatchFanout
	}
	o.StrictCursor = cfg.CatalogStrictCursor
	return o
}
