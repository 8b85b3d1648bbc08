package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebChat serves direct-mode chat sessions over websockets. The agent
// handle is embedded in the session URL, so no stored binding is ever
// consulted: /chat/<handle>.
type WebChat struct {
	gateway  *Gateway
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWebChat(gateway *Gateway, log *zap.Logger) *WebChat {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebChat{
		gateway: gateway,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve blocks on a websocket server until ctx is done.
func (w *WebChat) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/", w.handleSession)

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	w.log.Info("webchat listening", zap.String("addr", addr))
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

type chatFrame struct {
	Text string `json:"text"`
}

type replyFrame struct {
	Text      string  `json:"text"`
	AgentID   string  `json:"agent_id,omitempty"`
	AgentName string  `json:"agent_name,omitempty"`
	Action    Action  `json:"action"`
	Media     []Media `json:"media,omitempty"`
}

func (w *WebChat) handleSession(rw http.ResponseWriter, r *http.Request) {
	handle := strings.TrimPrefix(r.URL.Path, "/chat/")
	if handle == "" {
		http.Error(rw, "missing agent handle", http.StatusBadRequest)
		return
	}
	conn, err := w.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	w.log.Info("webchat session opened", zap.String("agent", handle), zap.String("session", sessionID))

	for {
		var frame chatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		reply := w.gateway.Handle(r.Context(), ModeDirect, Update{
			Channel:      "webchat",
			SenderID:     sessionID,
			ChatID:       sessionID,
			Text:         frame.Text,
			Timestamp:    time.Now(),
			SessionAgent: handle,
		})
		out, _ := json.Marshal(replyFrame{
			Text:      reply.Text,
			AgentID:   reply.AgentID,
			AgentName: reply.AgentName,
			Action:    reply.Action,
			Media:     reply.Media,
		})
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}
