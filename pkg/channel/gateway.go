package channel

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/engine"
	"github.com/nathfavour/agentpesa/pkg/identity"
)

// Gateway runs one inbound update through resolution, generation and
// directive execution, and produces the reply for the channel. Each
// call is one independent unit of work.
type Gateway struct {
	resolver     *Resolver
	generator    engine.Generator
	orchestrator *engine.Orchestrator
	log          *zap.Logger
}

func NewGateway(resolver *Resolver, generator engine.Generator, orchestrator *engine.Orchestrator, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		resolver:     resolver,
		generator:    generator,
		orchestrator: orchestrator,
		log:          log,
	}
}

// Handle routes an update and returns the reply to send back. Routing
// failures surface as ActionError; an unbound sender on a pairing
// channel is ActionUnknownSender, never an error.
func (g *Gateway) Handle(ctx context.Context, mode BindingMode, u Update) Reply {
	agent, err := g.resolver.Resolve(mode, u)
	if err != nil {
		if mode == ModePairing && errors.Is(err, ErrUnbound) {
			return g.handleUnbound(u)
		}
		g.log.Warn("routing failed",
			zap.String("channel", u.Channel),
			zap.String("sender", u.SenderID),
			zap.Error(err))
		return Reply{Action: ActionError, Text: "⚠️ I can't route your message right now."}
	}

	if mode == ModePairing && strings.TrimSpace(u.Text) == "/unpair" {
		if err := g.resolver.Unpair(u.Channel, u.SenderID); err != nil {
			g.log.Error("unpair failed", zap.String("sender", u.SenderID), zap.Error(err))
			return Reply{Action: ActionError, Text: "⚠️ Could not unpair. Try again."}
		}
		return Reply{
			Action:    ActionUnpaired,
			AgentID:   agent.ID,
			AgentName: agent.DisplayName,
			Text:      "👋 Unpaired. Send a new pairing code to connect again.",
		}
	}

	return g.respond(ctx, agent, u)
}

// handleUnbound deals with a sender the pairing channel doesn't know:
// either a pairing-code submission or a prompt to send one.
func (g *Gateway) handleUnbound(u Update) Reply {
	if LooksLikeCode(u.Text) {
		agent, err := g.resolver.Pair(u.Channel, u.SenderID, u.Text, u.BotID)
		if err != nil {
			return Reply{
				Action: ActionUnknownSender,
				Text:   "⚠️ That pairing code didn't work. Ask your agent's owner for a fresh one.",
			}
		}
		return Reply{
			Action:    ActionPaired,
			AgentID:   agent.ID,
			AgentName: agent.DisplayName,
			Text:      "✅ Paired with " + agent.DisplayName + ". Say hi!",
		}
	}
	return Reply{
		Action: ActionUnknownSender,
		Text:   "🔑 I don't know you yet. Send your 6-character pairing code to connect to an agent.",
	}
}

// respond is the shared generation + execution path. The cron
// scheduler reuses it through Respond.
func (g *Gateway) respond(ctx context.Context, agent *identity.Agent, u Update) Reply {
	ec := ExecutionContext(agent)
	text, err := g.generator.Reply(ctx, ec, u.Text)
	if err != nil {
		g.log.Error("generation failed", zap.String("agent", agent.Handle), zap.Error(err))
		return Reply{
			Action:    ActionError,
			AgentID:   agent.ID,
			AgentName: agent.DisplayName,
			Text:      "⚠️ I couldn't come up with a reply. Try again in a moment.",
		}
	}
	final, executed := g.orchestrator.Execute(ctx, text, ec)
	g.log.Info("handled message",
		zap.String("agent", agent.Handle),
		zap.String("channel", u.Channel),
		zap.Int("directives", executed))
	return Reply{
		Action:    ActionChat,
		AgentID:   agent.ID,
		AgentName: agent.DisplayName,
		Text:      final,
	}
}

// Respond runs the generation + execution path for a caller that has
// already resolved the agent (the cron scheduler).
func (g *Gateway) Respond(ctx context.Context, agent *identity.Agent, text string) Reply {
	return g.respond(ctx, agent, Update{Channel: "cron", Text: text})
}

// ExecutionContext builds the read-only handler context for an agent.
func ExecutionContext(agent *identity.Agent) engine.Context {
	return engine.Context{
		AgentID:       agent.ID,
		AgentHandle:   agent.Handle,
		AgentTemplate: agent.Template,
		WalletAddress: agent.WalletAddress,
		WalletIndex:   agent.WalletIndex,
	}
}
