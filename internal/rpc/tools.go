package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/loomkit/loom/internal/scaffold"
	"github.com/loomkit/loom/internal/service"
)

// Tool describes one tool exposed over the transport.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler handles a tool call and returns an envelope response.
type ToolHandler func(ctx context.Context, params map[string]interface{}) (*Envelope, error)

// GetToolDefinitions returns all tool definitions.
func (s *Server) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "search_components",
			Description: "Search the component catalog with ranked free-text matching over names, kinds, descriptions, use cases, aliases and props",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Search query, e.g. 'sortable table' or 'button'",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "get_component",
			Description: "Get full metadata for one component by name, including its resolved dependency closure. Name matching is case-insensitive; unknown names return suggestions",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Component name, e.g. 'DataTable'",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "list_components",
			Description: "List catalog components, optionally filtered to a single layer (2=utility, 3=primitive, 4=composite, 5=pattern, 6=shell)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": map[string]interface{}{
						"type":        "integer",
						"description": "Layer filter; omit or 0 for all layers",
					},
				},
			},
		},
		{
			Name:        "scaffold_project",
			Description: "Generate a complete project scaffold for the requested components: dependency closure, layered barrels, trimmed icon manifest and an anchor-matched entry point",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"projectName": map[string]interface{}{
						"type":        "string",
						"description": "Project name used in package.json and titles",
					},
					"components": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Component names to include; dependencies are resolved automatically",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"inline", "urls"},
						"default":     "inline",
						"description": "inline embeds file contents; urls references catalog-sourced files remotely and adds a setup script",
					},
				},
				"required": []string{"projectName", "components"},
			},
		},
	}
}

// registerTools wires every tool handler into the dispatch table.
func (s *Server) registerTools() {
	s.tools = map[string]ToolHandler{
		"search_components": s.handleSearchComponents,
		"get_component":     s.handleGetComponent,
		"list_components":   s.handleListComponents,
		"scaffold_project":  s.handleScaffoldProject,
	}
}

func (s *Server) handleSearchComponents(ctx context.Context, params map[string]interface{}) (*Envelope, error) {
	query, err := stringParam(params, "query", true)
	if err != nil {
		return nil, err
	}

	results, serr := s.service.Search(ctx, query)
	if serr != nil {
		return failFrom(serr)
	}
	return Ok(results), nil
}

func (s *Server) handleGetComponent(ctx context.Context, params map[string]interface{}) (*Envelope, error) {
	name, err := stringParam(params, "name", true)
	if err != nil {
		return nil, err
	}

	detail, serr := s.service.Get(ctx, name)
	if serr != nil {
		return failFrom(serr)
	}
	return Ok(detail), nil
}

func (s *Server) handleListComponents(ctx context.Context, params map[string]interface{}) (*Envelope, error) {
	layer, err := intParam(params, "layer")
	if err != nil {
		return nil, err
	}
	return Ok(s.service.List(ctx, layer)), nil
}

func (s *Server) handleScaffoldProject(ctx context.Context, params map[string]interface{}) (*Envelope, error) {
	projectName, err := stringParam(params, "projectName", true)
	if err != nil {
		return nil, err
	}
	components, err := stringSliceParam(params, "components")
	if err != nil {
		return nil, err
	}
	modeRaw, err := stringParam(params, "mode", false)
	if err != nil {
		return nil, err
	}
	mode, err := scaffold.ParseMode(modeRaw)
	if err != nil {
		return nil, &RPCError{Code: InvalidParams, Message: err.Error()}
	}

	plan, serr := s.service.Scaffold(ctx, projectName, components, mode)
	if serr != nil {
		return failFrom(serr)
	}
	return Ok(plan, plan.Warnings...), nil
}

// failFrom converts a service failure into an envelope. Anything that is not
// a structured service error escapes as a protocol-level internal error.
func failFrom(err error) (*Envelope, error) {
	var serr *service.Error
	if errors.As(err, &serr) {
		return Fail(serr), nil
	}
	return nil, err
}

func stringParam(params map[string]interface{}, key string, required bool) (string, error) {
	raw, ok := params[key]
	if !ok {
		if required {
			return "", &RPCError{Code: InvalidParams, Message: fmt.Sprintf("missing required parameter: %s", key)}
		}
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", &RPCError{Code: InvalidParams, Message: fmt.Sprintf("parameter %s must be a string", key)}
	}
	return value, nil
}

func intParam(params map[string]interface{}, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, nil
	}
	// JSON numbers decode as float64.
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, &RPCError{Code: InvalidParams, Message: fmt.Sprintf("parameter %s must be an integer", key)}
	}
}

func stringSliceParam(params map[string]interface{}, key string) ([]string, error) {
	raw, ok := params[key]
	if !ok {
		return nil, &RPCError{Code: InvalidParams, Message: fmt.Sprintf("missing required parameter: %s", key)}
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, &RPCError{Code: InvalidParams, Message: fmt.Sprintf("parameter %s must be an array of strings", key)}
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, &RPCError{Code: InvalidParams, Message: fmt.Sprintf("parameter %s must be an array of strings", key)}
		}
		values = append(values, value)
	}
	return values, nil
}
