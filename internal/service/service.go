// Package service wires the catalog, search index, resolver and scaffolder
// into the dependency-injected facade the transports call. It owns the
// error taxonomy, fuzzy suggestions and analytics emission; transports stay
// thin.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/analytics"
	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/resolver"
	"github.com/loomkit/loom/internal/scaffold"
	"github.com/loomkit/loom/internal/search"
)

// ComponentSummary is the list/search view of a component.
type ComponentSummary struct {
	Name        string `json:"name"`
	Layer       int    `json:"layer"`
	LayerName   string `json:"layerName"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Score       int    `json:"score,omitempty"`
}

// ComponentDetail is the full view returned by Get, including the resolved
// dependency closure.
type ComponentDetail struct {
	ComponentSummary
	UseCases      []string `json:"useCases,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
	Props         []string `json:"props,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
	HostComponent string   `json:"hostComponent,omitempty"`

	// ResolvedDependencies is the full transitive closure minus the
	// component itself, bottom-up.
	ResolvedDependencies []string `json:"resolvedDependencies,omitempty"`
}

// Options configures a Service.
type Options struct {
	// BaseURL prefixes remote references in urls-mode scaffolds.
	BaseURL string
	// Analytics receives fire-and-forget events. Optional.
	Analytics *analytics.Dispatcher
}

// Service exposes the core operations over an immutable catalog. Build one
// per process and share it across requests; every method is safe for
// concurrent use.
type Service struct {
	store      *catalog.Store
	index      *search.Index
	resolver   *resolver.Resolver
	scaffolder *scaffold.Scaffolder
	analytics  *analytics.Dispatcher
	logger     *zap.Logger
}

// New builds the service stack over a validated snapshot.
func New(snap *catalog.Snapshot, opts Options, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := catalog.NewStore(snap)
	if err != nil {
		return nil, err
	}

	res := resolver.New(store, logger)
	s := &Service{
		store:     store,
		index:     search.New(store),
		resolver:  res,
		analytics: opts.Analytics,
		logger:    logger,
	}
	s.scaffolder = scaffold.New(store, res, scaffold.Options{
		BaseURL: opts.BaseURL,
		Suggest: func(name string, limit int) []string {
			return suggest(store, name, limit)
		},
	}, logger)

	return s, nil
}

// Store exposes the catalog store for CLI consumers (list, validate).
func (s *Service) Store() *catalog.Store {
	return s.store
}

// Search runs ranked free-text search over the catalog.
func (s *Service) Search(ctx context.Context, query string) ([]ComponentSummary, error) {
	if query == "" {
		return nil, InvalidArgument("query is required")
	}

	results := s.index.Search(query)
	summaries := make([]ComponentSummary, 0, len(results))
	for _, r := range results {
		sum := summarize(r.Record)
		sum.Score = r.Score
		summaries = append(summaries, sum)
	}

	s.emit(analytics.Event{Type: analytics.EventSearchPerformed, Query: query})
	return summaries, nil
}

// Get returns full component detail, or a COMPONENT_NOT_FOUND error with
// up to three suggestions.
func (s *Service) Get(ctx context.Context, name string) (*ComponentDetail, error) {
	if name == "" {
		return nil, InvalidArgument("component name is required")
	}

	rec, ok := s.store.Get(name)
	if !ok {
		s.emit(analytics.Event{Type: analytics.EventComponentNotFound, Component: name})
		return nil, NotFoundError(name, suggest(s.store, name, 3))
	}

	deps, err := s.resolver.Dependencies(rec.Name)
	if err != nil {
		return nil, Internal(err)
	}
	resolved := make([]string, len(deps))
	for i, d := range deps {
		resolved[i] = d.Name
	}

	s.emit(analytics.Event{Type: analytics.EventComponentFound, Component: rec.Name})
	return &ComponentDetail{
		ComponentSummary:     summarize(rec),
		UseCases:             rec.UseCases,
		Aliases:              rec.Aliases,
		Props:                rec.PropNames,
		Dependencies:         rec.Dependencies,
		HostComponent:        rec.HostComponent,
		ResolvedDependencies: resolved,
	}, nil
}

// List returns catalog summaries, optionally filtered to one layer.
func (s *Service) List(ctx context.Context, layer int) []ComponentSummary {
	records := s.store.List(layer)
	summaries := make([]ComponentSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, summarize(rec))
	}
	return summaries
}

// Scaffold synthesizes a project plan for the requested component set.
func (s *Service) Scaffold(ctx context.Context, projectName string, components []string, mode scaffold.Mode) (*scaffold.Plan, error) {
	if projectName == "" {
		return nil, InvalidArgument("project name is required")
	}
	if len(components) == 0 {
		return nil, InvalidArgument("at least one component is required")
	}

	plan, err := s.scaffolder.Scaffold(projectName, components, mode)
	if err != nil {
		var empty *scaffold.EmptyResolutionError
		if errors.As(err, &empty) {
			var suggestions []string
			for _, name := range empty.Unknown {
				suggestions = append(suggestions, empty.Suggestions[name]...)
			}
			return nil, EmptyResolutionErr(empty.Error(), suggestions)
		}
		return nil, Internal(err)
	}

	for _, name := range plan.NotFound {
		s.emit(analytics.Event{Type: analytics.EventComponentNotFound, Component: name})
	}
	s.emit(analytics.Event{Type: analytics.EventScaffoldGenerated, Component: projectName})
	return plan, nil
}

// emit hands an event to the dispatcher when one is configured. Never
// blocks, never fails.
func (s *Service) emit(e analytics.Event) {
	if s.analytics != nil {
		s.analytics.Record(e)
	}
}

func summarize(rec *catalog.ComponentRecord) ComponentSummary {
	return ComponentSummary{
		Name:        rec.Name,
		Layer:       rec.Layer,
		LayerName:   catalog.LayerName(rec.Layer),
		Kind:        rec.Kind,
		Description: rec.Description,
	}
}
