package mcp

import (
	"context"
	"errors"
	"sync"

	"github.com/bobmcallan/agentcore-mcp/internal/common"
	"github.com/bobmcallan/agentcore-mcp/internal/openapi"
)

// SpecSource names a specification document and its per-document settings.
type SpecSource struct {
	Path    string
	BaseURL string            // overrides the document's servers/host when set
	Headers map[string]string // static headers sent on every call
}

// Adapter synthesizes tools from specification documents and registers them.
// It carries the registry, executor and logger used during synthesis.
type Adapter struct {
	registry Registrar
	exec     *Executor
	logger   *common.Logger

	mu       sync.RWMutex
	bindings []Binding
}

// NewAdapter creates an adapter registering into registry.
func NewAdapter(registry Registrar, exec *Executor, logger *common.Logger) *Adapter {
	return &Adapter{
		registry: registry,
		exec:     exec,
		logger:   logger,
	}
}

// RegisterSpec loads one document and registers a tool per operation.
// Failures are logged and yield zero tools; they never stop the process.
func (a *Adapter) RegisterSpec(ctx context.Context, src SpecSource) int {
	spec, err := openapi.Load(src.Path)
	if err != nil {
		if errors.Is(err, openapi.ErrSpecNotFound) {
			a.logger.Warn().Str("spec", src.Path).Msg("OpenAPI spec not found, skipping")
		} else {
			a.logger.Error().Str("spec", src.Path).Err(err).Msg("failed to load OpenAPI spec, skipping")
		}
		return 0
	}

	for _, w := range spec.Warnings() {
		a.logger.Warn().Str("spec", src.Path).Str("error", w).Msg("ignored malformed OpenAPI field")
	}

	if err := spec.Validate(ctx); err != nil {
		a.logger.Warn().Str("spec", src.Path).Str("error", err.Error()).Msg("OpenAPI spec failed validation, using raw document")
	}

	baseURL := openapi.ResolveBaseURL(spec, src.BaseURL)
	count := a.Synthesize(spec, baseURL, src.Headers)

	a.logger.Info().
		Str("spec", src.Path).
		Str("title", spec.Title()).
		Str("base_url", baseURL).
		Int("tools", count).
		Msg("OpenAPI spec loaded")
	return count
}

// Synthesize registers one tool per operation of spec and returns how many
// were registered. Operations whose registration fails are logged and skipped.
func (a *Adapter) Synthesize(spec *openapi.Spec, baseURL string, headers map[string]string) int {
	count := 0
	for _, op := range openapi.Enumerate(spec) {
		b := NewBinding(op, baseURL, headers)
		if err := a.registry.Register(BuildMCPTool(b), GenericToolHandler(a.exec, b)); err != nil {
			a.logger.Warn().
				Str("tool", b.Name).
				Str("method", op.Method).
				Str("path", op.Path).
				Str("error", err.Error()).
				Msg("skipping OpenAPI tool")
			continue
		}

		a.mu.Lock()
		a.bindings = append(a.bindings, b)
		a.mu.Unlock()
		count++

		a.logger.Debug().Str("tool", b.Name).Str("method", op.Method).Str("path", op.Path).Msg("created tool")
	}
	return count
}

// Bindings returns a copy of the registered bindings in registration order.
func (a *Adapter) Bindings() []Binding {
	a.mu.RLock()
	defer a.mu.RUnlock()
	result := make([]Binding, len(a.bindings))
	copy(result, a.bindings)
	return result
}
