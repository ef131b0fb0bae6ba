package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/york1996-max/filebridge/internal/translator"
	"github.com/york1996-max/filebridge/internal/types"
)

// Provider interface for source implementations
type Provider interface {
	Definition() types.Service
	CreateExecution(ctx context.Context, req translator.Request) (translator.Execution, error)
}

// Registry manages registered sources
type Registry struct {
	sources sync.Map
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a source provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("source ID cannot be empty")
	}
	r.sources.Store(def.ID, provider)
	return nil
}

// Unregister removes a source provider
func (r *Registry) Unregister(sourceID string) {
	r.sources.Delete(sourceID)
}

// Get retrieves a source by ID
func (r *Registry) Get(sourceID string) (Provider, bool) {
	val, ok := r.sources.Load(sourceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered sources, sorted by ID
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.sources.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// CreateExecution dispatches a "source.procedure" call. The procedure
// part of the call ID overrides req.Procedure.
func (r *Registry) CreateExecution(ctx context.Context, callID string, req translator.Request) (translator.Execution, error) {
	parts := strings.SplitN(callID, ".", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid call ID format: %s", callID)
	}

	provider, ok := r.Get(parts[0])
	if !ok {
		return nil, fmt.Errorf("source not found: %s", parts[0])
	}
	req.Procedure = parts[1]
	return provider.CreateExecution(ctx, req)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalProcedures int
	categories := make(map[string]int)

	r.sources.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalProcedures += len(def.Procedures)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_sources":    total,
		"total_procedures": totalProcedures,
		"categories":       categories,
	}
}
