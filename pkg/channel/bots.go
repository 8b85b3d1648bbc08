package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BotConfig is one provisioned bot credential. A shared bot serves
// many agents through pairing codes; a dedicated one serves exactly
// the agent named here.
type BotConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"` // "telegram", "discord"
	// TokenKey names the vault entry holding the bot token.
	TokenKey string `json:"token_key"`
	// Agent is empty for shared bots.
	Agent  string `json:"agent,omitempty"`
	Shared bool   `json:"shared,omitempty"`
}

// Mode returns the binding mode this bot routes under.
func (b BotConfig) Mode() BindingMode {
	if b.Shared {
		return ModePairing
	}
	return ModeDedicated
}

// TokenSource fetches bot tokens, normally the keyring vault.
type TokenSource interface {
	Get(key string) (string, error)
}

// BotManager owns the provisioned bots and runs their update loops.
// It also implements BotDirectory for dedicated-mode resolution.
type BotManager struct {
	bots    []BotConfig
	gateway *Gateway
	tokens  TokenSource
	path    string
	log     *zap.Logger
	mu      sync.RWMutex
}

func NewBotManager(path string, gateway *Gateway, tokens TokenSource, log *zap.Logger) *BotManager {
	if log == nil {
		log = zap.NewNop()
	}
	bm := &BotManager{path: path, gateway: gateway, tokens: tokens, log: log}
	bm.load()
	return bm
}

// SetGateway breaks the construction cycle: the resolver needs the bot
// directory and the gateway needs the resolver, so the gateway is
// attached after both exist. Must happen before StartAll.
func (bm *BotManager) SetGateway(g *Gateway) {
	bm.gateway = g
}

func (bm *BotManager) load() {
	data, err := os.ReadFile(bm.path)
	if err != nil {
		bm.bots = []BotConfig{}
		return
	}
	if err := json.Unmarshal(data, &bm.bots); err != nil {
		bm.log.Error("corrupt bots file", zap.String("path", bm.path), zap.Error(err))
		bm.bots = []BotConfig{}
	}
}

func (bm *BotManager) save() error {
	data, err := json.MarshalIndent(bm.bots, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(bm.path, data, 0600)
}

// AddBot provisions a bot. Dedicated bots must name an agent.
func (bm *BotManager) AddBot(cfg BotConfig) (BotConfig, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if !cfg.Shared && cfg.Agent == "" {
		return BotConfig{}, fmt.Errorf("dedicated bot needs an agent")
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	bm.bots = append(bm.bots, cfg)
	return cfg, bm.save()
}

func (bm *BotManager) RemoveBot(id string) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	for i, b := range bm.bots {
		if b.ID == id {
			bm.bots = append(bm.bots[:i], bm.bots[i+1:]...)
			return bm.save()
		}
	}
	return fmt.Errorf("bot %s not found", id)
}

func (bm *BotManager) ListBots() []BotConfig {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	out := make([]BotConfig, len(bm.bots))
	copy(out, bm.bots)
	return out
}

// AgentForBot implements BotDirectory.
func (bm *BotManager) AgentForBot(botID string) (string, bool) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	for _, b := range bm.bots {
		if b.ID == botID && !b.Shared {
			return b.Agent, true
		}
	}
	return "", false
}

// StartAll launches one update loop per provisioned bot. Loops run
// until ctx is done; a bot that fails to connect is logged and
// skipped, never fatal.
func (bm *BotManager) StartAll(ctx context.Context) {
	for _, cfg := range bm.ListBots() {
		go bm.runBot(ctx, cfg)
	}
}

func (bm *BotManager) runBot(ctx context.Context, cfg BotConfig) {
	token, err := bm.tokens.Get(cfg.TokenKey)
	if err != nil {
		bm.log.Error("bot token unavailable", zap.String("bot", cfg.Name), zap.Error(err))
		return
	}

	var m Messenger
	switch cfg.Platform {
	case "telegram":
		m, err = NewTelegramMessenger(token, cfg.ID)
	case "discord":
		m, err = NewDiscordMessenger(token, cfg.ID)
	default:
		bm.log.Error("unsupported platform", zap.String("platform", cfg.Platform))
		return
	}
	if err != nil {
		bm.log.Error("bot failed to start", zap.String("bot", cfg.Name), zap.Error(err))
		return
	}

	updates, err := m.Connect(ctx)
	if err != nil {
		bm.log.Error("bot failed to connect", zap.String("bot", cfg.Name), zap.Error(err))
		return
	}
	bm.log.Info("bot started",
		zap.String("bot", cfg.Name),
		zap.String("platform", cfg.Platform),
		zap.String("mode", string(cfg.Mode())))

	for {
		select {
		case <-ctx.Done():
			_ = m.Disconnect()
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Text == "" {
				continue
			}
			// Each message is its own unit of work; messages from
			// different senders run in parallel.
			go func(u Update) {
				_ = m.Typing(u.ChatID)
				reply := bm.gateway.Handle(ctx, cfg.Mode(), u)
				if err := m.Send(u.ChatID, reply); err != nil {
					bm.log.Error("send failed",
						zap.String("bot", cfg.Name),
						zap.String("chat", u.ChatID),
						zap.Error(err))
				}
			}(u)
		}
	}
}
