package tools

import "context"

// ToolRouter wraps a ToolRegistry with tool specifications for dispatch.
type ToolRouter struct {
	registry *ToolRegistry
	specs    []ToolSpec
}

// NewToolRouter creates a new ToolRouter.
func NewToolRouter(registry *ToolRegistry, specs []ToolSpec) *ToolRouter {
	return &ToolRouter{
		registry: registry,
		specs:    specs,
	}
}

// GetToolSpecs returns the tool specifications for model prompt construction.
func (r *ToolRouter) GetToolSpecs() []ToolSpec {
	return r.specs
}

// NeedsApproval reports whether the invocation must be approved before
// dispatch. Unknown tools never need approval; dispatch will reject them.
func (r *ToolRouter) NeedsApproval(invocation *ToolInvocation) bool {
	handler, err := r.registry.GetHandler(invocation.ToolName)
	if err != nil {
		return false
	}
	return handler.NeedsApproval(invocation)
}

// DispatchToolCall dispatches a tool invocation to the appropriate handler.
func (r *ToolRouter) DispatchToolCall(ctx context.Context, invocation *ToolInvocation) (*ToolOutput, error) {
	handler, err := r.registry.GetHandler(invocation.ToolName)
	if err != nil {
		return nil, err
	}
	return handler.Handle(ctx, invocation)
}

// Registry returns the underlying ToolRegistry.
func (r *ToolRouter) Registry() *ToolRegistry {
	return r.registry
}
