// Package tool maps tool names to schemas and executors.
package tool

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/llm"
	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/logger"
	"github.com/devburger/ordering-agent/pkg/metrics"
)

// Catalog is the read-only product lookup the tools depend on.
type Catalog interface {
	GetAll(ctx context.Context) ([]model.MenuItem, error)
	FindByName(ctx context.Context, name string) (*model.MenuItem, error)
}

// Ledger is the transactional order store the tools depend on.
type Ledger interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// OrderObserver is notified after an order commits.
type OrderObserver interface {
	OrderCreated(ctx context.Context, order *model.Order)
}

// Definition pairs a tool's declared schema with its executor.
type Definition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
	run         func(ctx context.Context, rawArgs json.RawMessage) string
}

// Registry validates and executes tool calls one at a time.
//
// Execute never returns a Go error: every failure, including an unknown
// tool name or a malformed payload, becomes a human-readable string that
// flows back to the model as the tool result.
type Registry struct {
	defs   []Definition
	byName map[string]Definition
	logger *logger.Logger
}

// NewRegistry builds the registry with the two ordering tools.
func NewRegistry(catalog Catalog, ledger Ledger, observer OrderObserver, log *logger.Logger) *Registry {
	r := &Registry{
		byName: make(map[string]Definition),
		logger: log,
	}
	r.register(listMenuDefinition(catalog))
	r.register(finalizeOrderDefinition(catalog, ledger, observer))
	return r
}

func (r *Registry) register(def Definition) {
	r.defs = append(r.defs, def)
	r.byName[def.Name] = def
}

// Definitions returns the tool schemas in registration order, in the form
// the model boundary expects.
func (r *Registry) Definitions() []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, len(r.defs))
	for i, def := range r.defs {
		out[i] = llm.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		}
	}
	return out
}

// Execute runs one tool call and returns its serialized result.
func (r *Registry) Execute(ctx context.Context, name string, rawArgs json.RawMessage) string {
	def, ok := r.byName[name]
	if !ok {
		r.logger.Warn("unknown tool requested", zap.String("tool", name))
		metrics.RecordToolExecution(name, "unknown")
		return "Ferramenta desconhecida."
	}

	result := def.run(ctx, rawArgs)
	r.logger.Debug("tool executed", zap.String("tool", name))
	return result
}
