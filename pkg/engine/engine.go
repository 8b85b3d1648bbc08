// Package engine binds the capability catalog to handlers and runs
// directives found in model output.
package engine

import (
	"context"
	"fmt"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

// Context is the read-only per-invocation bundle handlers may consult.
type Context struct {
	AgentID       string
	AgentHandle   string
	AgentTemplate string
	// WalletAddress is empty when the agent wallet is not initialized.
	WalletAddress string
	// WalletIndex is the key-derivation index, nil when no wallet exists.
	WalletIndex *uint32
}

// HasWallet reports whether the context carries an initialized wallet.
func (c Context) HasWallet() bool {
	return c.WalletAddress != ""
}

// Outcome is the result of one handler invocation.
type Outcome struct {
	OK      bool
	Text    string
	Payload map[string]any
	Err     string
}

// Success builds a successful outcome with a rendered text block.
func Success(text string, payload map[string]any) Outcome {
	return Outcome{OK: true, Text: text, Payload: payload}
}

// Failure builds a failed outcome. The text is still spliced into the
// reply so the model and the user see what went wrong.
func Failure(format string, args ...any) Outcome {
	msg := fmt.Sprintf(format, args...)
	return Outcome{Text: msg, Err: msg}
}

// Usage builds a failed outcome carrying an argument hint for a
// capability the model invoked with bad arguments.
func Usage(cap catalog.Capability, detail string) Outcome {
	syntax := "[[" + cap.Tag
	for _, p := range cap.Parameters {
		syntax += "|<" + p.Name + ">"
	}
	syntax += "]]"
	return Failure("⚠️ %s — usage: %s", detail, syntax)
}

// NeedsWallet builds the precondition failure for wallet-gated
// capabilities invoked without a wallet. The message instructs the
// model to walk the user through registration first.
func NeedsWallet(cap catalog.Capability) Outcome {
	return Failure("⚠️ %s needs an initialized wallet. Ask the user to run wallet registration ([[REGISTER_WALLET]]) first, then retry.", cap.Name)
}

// Handler executes one capability. A returned error is equivalent to a
// failed Outcome; the orchestrator renders it in place of the directive
// and moves on.
type Handler func(ctx context.Context, args []string, ec Context) (Outcome, error)

// Generator produces a reply for an agent given an inbound message. It
// is the external text model; the engine never implements it.
type Generator interface {
	Reply(ctx context.Context, ec Context, message string) (string, error)
}
