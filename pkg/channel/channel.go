// Package channel routes inbound messages from external surfaces
// (Telegram, Discord, web chat) to agents and carries replies back.
package channel

import (
	"context"
	"time"
)

// BindingMode selects how a sender is mapped to an agent.
type BindingMode string

const (
	// ModeDirect: the caller supplies the agent explicitly (web chat
	// session URL). No stored binding is consulted.
	ModeDirect BindingMode = "direct"
	// ModeDedicated: the bot credential itself determines the agent;
	// any sender reaching the bot reaches that agent.
	ModeDedicated BindingMode = "dedicated"
	// ModePairing: a shared bot serves many agents; senders must
	// submit a one-time pairing code before messages route anywhere.
	ModePairing BindingMode = "pairing"
)

// Action classifies an outbound reply.
type Action string

const (
	ActionChat          Action = "chat"
	ActionPaired        Action = "paired"
	ActionUnpaired      Action = "unpaired"
	ActionUnknownSender Action = "unknown_sender"
	ActionError         Action = "error"
)

// Update is one inbound message from any channel.
type Update struct {
	Channel    string // "telegram", "discord", "webchat"
	SenderID   string
	SenderName string
	Username   string
	ChatID     string
	Group      bool
	GroupTitle string
	MessageID  string
	Text       string
	Timestamp  time.Time
	Media      []Media

	// SessionAgent carries the agent handle for direct-mode sessions.
	SessionAgent string
	// BotID identifies the receiving bot for dedicated-mode routing.
	BotID string
}

// Media is one attachment on an update or reply.
type Media struct {
	Type    string // "image", "audio", "document"
	URL     string
	Caption string
}

// Reply is what goes back to the originating channel.
type Reply struct {
	Text        string
	AgentID     string
	AgentName   string
	Action      Action
	Media       []Media
}

// sendUpdate delivers u unless ctx is done first. Adapters produce on
// library-owned goroutines; an unguarded send would block them forever
// once the consumer exits on shutdown.
func sendUpdate(ctx context.Context, ch chan<- Update, u Update) bool {
	select {
	case ch <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// Messenger is one channel adapter variant. Implementations exist per
// platform and are selected at routing time.
type Messenger interface {
	Platform() string
	Connect(ctx context.Context) (<-chan Update, error)
	Disconnect() error
	Send(chatID string, r Reply) error
	// Typing signals the sender that a reply is being produced.
	Typing(chatID string) error
}
