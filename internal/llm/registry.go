package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Builtin lists the provider names New knows how to construct.
var Builtin = []string{"gemini", "anthropic", "openai", "ollama"}

// New constructs a builtin provider by name.
func New(name string, s Settings) (Provider, error) {
	switch strings.ToLower(name) {
	case "gemini", "google":
		return NewGeminiProvider(s), nil
	case "anthropic", "claude":
		return NewAnthropicProvider(s), nil
	case "openai":
		return NewOpenAIProvider(s), nil
	case "ollama":
		return NewOllamaProvider(s), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(Builtin, ", "))
	}
}

// Registry manages LLM providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("cannot register nil provider")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}

	r.providers[name] = p
	return nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return p, nil
}

// List returns all registered provider names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named provider, constructing and registering it from
// settings on first use.
func (r *Registry) Resolve(name string, s Settings) (Provider, error) {
	if p, err := r.Get(name); err == nil {
		return p, nil
	}

	p, err := New(name, s)
	if err != nil {
		return nil, err
	}
	if err := r.Register(p); err != nil {
		// Already registered under its canonical name.
		return r.Get(p.Name())
	}
	return p, nil
}

