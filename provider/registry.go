package provider

import "github.com/hlvm-dev/hqlc/logger"

// Registry holds providers in precedence order and returns the first whose
// trigger condition matches. Triggers inspect disjoint prefix shapes
// (file mention, slash command, plain identifier) so at most one matches
// in practice; exactly one provider is active per session.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry with the given precedence order.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Register appends a provider at the lowest precedence.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Providers returns the registered providers in precedence order.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Match returns the first provider whose trigger fires for the context.
func (r *Registry) Match(cc Context) (Provider, bool) {
	for _, p := range r.providers {
		if p.ShouldTrigger(cc) {
			logger.Debugw("provider matched",
				"provider", p.ID(),
				"word", cc.Word,
				"async", p.Async(),
			)
			return p, true
		}
	}
	return nil, false
}
