package catalog

import "fmt"

// DefaultTemplate is used when an agent's template is unrecognized.
const DefaultTemplate = "default"

// templateCapabilities maps an agent template to the capability ids it
// may advertise and execute. Validated by ValidateTemplates at startup
// so a typo fails fast instead of silently dropping a capability.
var templateCapabilities = map[string][]string{
	"trader": {
		"celo-balance", "token-balance", "token-info",
		"celo-price", "token-price",
		"mento-quote", "mento-swap",
		"portfolio", "agent-info",
	},
	"payments": {
		"celo-balance", "token-balance", "token-info",
		"register-wallet", "agent-info", "request-sponsorship",
		"send-celo", "send-token",
	},
	"analyst": {
		"token-info", "celo-price", "token-price", "mento-quote", "agent-info",
	},
	DefaultTemplate: {
		"celo-balance", "token-balance", "token-info",
		"celo-price", "token-price",
		"mento-quote", "mento-swap",
		"portfolio", "register-wallet", "agent-info", "request-sponsorship",
	},
}

// ForTemplate returns the capabilities available to a template, falling
// back to the default set when the template is unknown.
func ForTemplate(template string) []Capability {
	ids, ok := templateCapabilities[template]
	if !ok {
		ids = templateCapabilities[DefaultTemplate]
	}
	out := make([]Capability, 0, len(ids))
	for _, id := range ids {
		if c, ok := ByID(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// Templates returns the known template names.
func Templates() []string {
	names := make([]string, 0, len(templateCapabilities))
	for name := range templateCapabilities {
		names = append(names, name)
	}
	return names
}

// ValidateTemplates checks every template entry against the catalog.
func ValidateTemplates() error {
	for template, ids := range templateCapabilities {
		for _, id := range ids {
			if _, ok := ByID(id); !ok {
				return fmt.Errorf("template %q references unknown capability %q", template, id)
			}
		}
	}
	return nil
}
