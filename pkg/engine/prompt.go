package engine

import (
	"strings"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

// RenderCapabilityBlock produces the instructional text advertising a
// template's capabilities to the generative model. Transfer
// capabilities are excluded; they carry their own externally-defined
// block. Returns "" when the template has nothing to advertise.
func (r *Registry) RenderCapabilityBlock(template, walletAddress string) string {
	return renderCapabilities(r.ListForTemplate(template), walletAddress)
}

func renderCapabilities(caps []catalog.Capability, walletAddress string) string {
	if len(caps) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("You can trigger real operations by embedding directives in your replies.\n")
	b.WriteString("A directive is [[TAG]] or [[TAG|arg1|arg2]] written exactly as shown.\n\n")
	for _, c := range caps {
		b.WriteString("**")
		b.WriteString(c.Name)
		b.WriteString("**: ")
		b.WriteString(c.Description)
		b.WriteString("\n  Tag: ")
		b.WriteString(tagSyntax(c))
		b.WriteString("\n")
		for _, ex := range c.Examples {
			b.WriteString("  Example — user says \"")
			b.WriteString(ex.Input)
			b.WriteString("\":\n    Your response includes: ")
			b.WriteString(ex.Directive)
			b.WriteString("\n")
		}
		if c.RequiresWallet && walletAddress == "" {
			b.WriteString("  ⚠️ Requires wallet (not initialized)\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func tagSyntax(c catalog.Capability) string {
	var b strings.Builder
	b.WriteString("[[")
	b.WriteString(c.Tag)
	for _, p := range c.Parameters {
		b.WriteString("|<")
		b.WriteString(p.Name)
		b.WriteString(">")
	}
	b.WriteString("]]")
	return b.String()
}
