package channel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/engine"
	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/store"
)

// echoGenerator returns the inbound message unchanged so tests control
// exactly which directives reach the orchestrator.
type echoGenerator struct{}

func (echoGenerator) Reply(_ context.Context, _ engine.Context, message string) (string, error) {
	return message, nil
}

type stubDirectory map[string]string

func (d stubDirectory) AgentForBot(botID string) (string, bool) {
	handle, ok := d[botID]
	return handle, ok
}

type fixture struct {
	store    *store.Store
	agents   *identity.Registry
	resolver *Resolver
	gateway  *Gateway
	agent    *identity.Agent
}

func newFixture(t *testing.T, bots BotDirectory) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	agents, err := identity.NewRegistry(filepath.Join(dir, "agents.json"))
	require.NoError(t, err)
	agent, err := agents.Create("mia", "Mia", "analyst")
	require.NoError(t, err)

	reg := engine.NewRegistry()
	info, _ := catalog.ByTag(catalog.TagAgentInfo)
	require.NoError(t, reg.Register(info, func(context.Context, []string, engine.Context) (engine.Outcome, error) {
		return engine.Success("🤖 here", nil), nil
	}))

	resolver := NewResolver(st, agents, bots)
	gw := NewGateway(resolver, echoGenerator{}, engine.NewOrchestrator(reg, nil), nil)
	return &fixture{store: st, agents: agents, resolver: resolver, gateway: gw, agent: agent}
}

func TestDirectModeRoutesBySessionAgent(t *testing.T) {
	f := newFixture(t, nil)

	r := f.gateway.Handle(context.Background(), ModeDirect, Update{
		Channel: "webchat", SenderID: "s1", SessionAgent: "mia", Text: "hello",
	})
	assert.Equal(t, ActionChat, r.Action)
	assert.Equal(t, f.agent.ID, r.AgentID)
	assert.Equal(t, "hello", r.Text)

	r = f.gateway.Handle(context.Background(), ModeDirect, Update{
		Channel: "webchat", SenderID: "s1", SessionAgent: "nobody", Text: "hello",
	})
	assert.Equal(t, ActionError, r.Action)
}

func TestDedicatedModeRoutesByBotCredential(t *testing.T) {
	f := newFixture(t, stubDirectory{"bot-1": "mia"})

	r := f.gateway.Handle(context.Background(), ModeDedicated, Update{
		Channel: "telegram", SenderID: "42", BotID: "bot-1", Text: "hi",
	})
	assert.Equal(t, ActionChat, r.Action)
	assert.Equal(t, f.agent.ID, r.AgentID)

	r = f.gateway.Handle(context.Background(), ModeDedicated, Update{
		Channel: "telegram", SenderID: "42", BotID: "bot-9", Text: "hi",
	})
	assert.Equal(t, ActionError, r.Action)
}

func TestPairingFlow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u := Update{Channel: "telegram", SenderID: "42", BotID: "shared", Text: "hello"}

	// Unknown sender gets asked for a code.
	r := f.gateway.Handle(ctx, ModePairing, u)
	assert.Equal(t, ActionUnknownSender, r.Action)

	// A valid code pairs the sender.
	code, err := f.resolver.NewPairingCode(f.agent.ID)
	require.NoError(t, err)
	u.Text = code
	r = f.gateway.Handle(ctx, ModePairing, u)
	require.Equal(t, ActionPaired, r.Action)
	assert.Equal(t, f.agent.ID, r.AgentID)

	// Subsequent messages route deterministically to the bound agent.
	u.Text = "what's up"
	r = f.gateway.Handle(ctx, ModePairing, u)
	assert.Equal(t, ActionChat, r.Action)
	assert.Equal(t, f.agent.ID, r.AgentID)

	// /unpair removes the binding; the sender is unknown again.
	u.Text = "/unpair"
	r = f.gateway.Handle(ctx, ModePairing, u)
	assert.Equal(t, ActionUnpaired, r.Action)

	u.Text = "hello again"
	r = f.gateway.Handle(ctx, ModePairing, u)
	assert.Equal(t, ActionUnknownSender, r.Action)
}

func TestPairingCodeIsSingleUse(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	code, err := f.resolver.NewPairingCode(f.agent.ID)
	require.NoError(t, err)

	r := f.gateway.Handle(ctx, ModePairing, Update{Channel: "telegram", SenderID: "1", Text: code})
	require.Equal(t, ActionPaired, r.Action)

	// A second sender replaying the code stays unknown.
	r = f.gateway.Handle(ctx, ModePairing, Update{Channel: "telegram", SenderID: "2", Text: code})
	assert.Equal(t, ActionUnknownSender, r.Action)
}

func TestBadCodeKeepsSenderUnknown(t *testing.T) {
	f := newFixture(t, nil)

	r := f.gateway.Handle(context.Background(), ModePairing, Update{
		Channel: "telegram", SenderID: "1", Text: "ZZZZZ9",
	})
	assert.Equal(t, ActionUnknownSender, r.Action)
}

func TestHandleExecutesDirectives(t *testing.T) {
	f := newFixture(t, nil)

	r := f.gateway.Handle(context.Background(), ModeDirect, Update{
		Channel: "webchat", SessionAgent: "mia", Text: "status: [[AGENT_INFO]]",
	})
	assert.Equal(t, ActionChat, r.Action)
	assert.Contains(t, r.Text, "🤖 here")
	assert.NotContains(t, r.Text, "[[AGENT_INFO]]")
}

func TestLooksLikeCode(t *testing.T) {
	assert.True(t, LooksLikeCode("ABC234"))
	assert.True(t, LooksLikeCode("  abc234  "))
	assert.False(t, LooksLikeCode("ABC23"))
	assert.False(t, LooksLikeCode("ABC2345"))
	assert.False(t, LooksLikeCode("hello there"))
	assert.False(t, LooksLikeCode(""))
}
