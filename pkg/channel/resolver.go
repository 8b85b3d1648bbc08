package channel

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nathfavour/agentpesa/pkg/identity"
	"github.com/nathfavour/agentpesa/pkg/store"
)

// ErrUnbound mirrors the store sentinel for callers of this package.
var ErrUnbound = store.ErrUnbound

// pairingTTL bounds how long a generated code stays redeemable.
const pairingTTL = 15 * time.Minute

// codeAlphabet avoids lookalike characters.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var codePattern = regexp.MustCompile(`^[A-Z2-9]{6}$`)

// BotDirectory answers which agent a dedicated bot credential serves.
type BotDirectory interface {
	AgentForBot(botID string) (agentHandle string, ok bool)
}

// Resolver maps (channel, sender) pairs to agents under the three
// binding modes.
type Resolver struct {
	store  *store.Store
	agents *identity.Registry
	bots   BotDirectory
}

func NewResolver(st *store.Store, agents *identity.Registry, bots BotDirectory) *Resolver {
	return &Resolver{store: st, agents: agents, bots: bots}
}

// Resolve returns the agent an update routes to. For pairing-mode
// channels an unbound sender yields ErrUnbound, which is not an error
// condition: the caller prompts for a pairing code.
func (r *Resolver) Resolve(mode BindingMode, u Update) (*identity.Agent, error) {
	switch mode {
	case ModeDirect:
		agent, ok := r.agents.Get(u.SessionAgent)
		if !ok {
			return nil, fmt.Errorf("unknown agent %q", u.SessionAgent)
		}
		return agent, nil

	case ModeDedicated:
		if r.bots == nil {
			return nil, fmt.Errorf("no bot directory configured")
		}
		handle, ok := r.bots.AgentForBot(u.BotID)
		if !ok {
			return nil, fmt.Errorf("bot %q serves no agent", u.BotID)
		}
		agent, ok := r.agents.Get(handle)
		if !ok {
			return nil, fmt.Errorf("bot %q points at unknown agent %q", u.BotID, handle)
		}
		return agent, nil

	case ModePairing:
		b, err := r.store.GetBinding(u.Channel, u.SenderID)
		if err != nil {
			return nil, err // ErrUnbound or a real store failure
		}
		agent, ok := r.agents.GetByID(b.AgentID)
		if !ok {
			return nil, fmt.Errorf("binding points at unknown agent %q", b.AgentID)
		}
		return agent, nil

	default:
		return nil, fmt.Errorf("unknown binding mode %q", mode)
	}
}

// LooksLikeCode reports whether the text could be a pairing code.
func LooksLikeCode(text string) bool {
	return codePattern.MatchString(strings.ToUpper(strings.TrimSpace(text)))
}

// Pair redeems a pairing code and binds the sender. The code is
// consumed atomically so two senders racing on it cannot both win.
func (r *Resolver) Pair(channel, senderID, code, botName string) (*identity.Agent, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	agentID, err := r.store.ConsumePairingCode(code)
	if err != nil {
		return nil, err
	}
	agent, ok := r.agents.GetByID(agentID)
	if !ok {
		return nil, fmt.Errorf("pairing code points at unknown agent")
	}
	err = r.store.PutBinding(store.Binding{
		Channel:  channel,
		SenderID: senderID,
		AgentID:  agent.ID,
		BotName:  botName,
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// Unpair removes the sender's binding.
func (r *Resolver) Unpair(channel, senderID string) error {
	return r.store.DeleteBinding(channel, senderID)
}

// NewPairingCode mints a single-use code for an agent.
func (r *Resolver) NewPairingCode(agentID string) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, 6)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	if err := r.store.CreatePairingCode(string(code), agentID, pairingTTL); err != nil {
		return "", err
	}
	return string(code), nil
}
