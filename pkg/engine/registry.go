package engine

import (
	"fmt"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

// Registry binds directive tags to handlers. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a catalog entry to its handler. Transfer capabilities
// and duplicate tags are rejected.
func (r *Registry) Register(cap catalog.Capability, h Handler) error {
	if cap.IsTransfer() {
		return fmt.Errorf("capability %s is a transfer capability and cannot be registered", cap.ID)
	}
	if h == nil {
		return fmt.Errorf("capability %s has a nil handler", cap.ID)
	}
	if _, dup := r.handlers[cap.Tag]; dup {
		return fmt.Errorf("tag %s registered twice", cap.Tag)
	}
	r.handlers[cap.Tag] = h
	return nil
}

// Lookup returns the handler for a tag, if any.
func (r *Registry) Lookup(tag string) (Handler, bool) {
	h, ok := r.handlers[tag]
	return h, ok
}

// Has reports whether a tag has a handler.
func (r *Registry) Has(tag string) bool {
	_, ok := r.handlers[tag]
	return ok
}

// ListAll returns every non-transfer catalog entry.
func (r *Registry) ListAll() []catalog.Capability {
	var out []catalog.Capability
	for _, c := range catalog.All() {
		if !c.IsTransfer() {
			out = append(out, c)
		}
	}
	return out
}

// ListForTemplate returns the non-transfer capabilities a template may
// use, falling back to the default set for unknown templates.
func (r *Registry) ListForTemplate(template string) []catalog.Capability {
	var out []catalog.Capability
	for _, c := range catalog.ForTemplate(template) {
		if !c.IsTransfer() {
			out = append(out, c)
		}
	}
	return out
}

// Verify checks that registration is total: every non-transfer catalog
// entry has exactly one handler and the template map is well-formed.
// Call at startup and fail fast, otherwise advertisement and execution
// disagree.
func (r *Registry) Verify() error {
	if err := catalog.ValidateTemplates(); err != nil {
		return err
	}
	for _, c := range catalog.All() {
		if c.IsTransfer() {
			if r.Has(c.Tag) {
				return fmt.Errorf("transfer tag %s must not be registered", c.Tag)
			}
			continue
		}
		if !r.Has(c.Tag) {
			return fmt.Errorf("capability %s has no handler", c.ID)
		}
	}
	return nil
}
