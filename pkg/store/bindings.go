package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrUnbound is returned when a (channel, sender) pair has no binding.
var ErrUnbound = errors.New("sender not bound")

// Binding associates a channel sender with an agent.
type Binding struct {
	Channel   string
	SenderID  string
	AgentID   string
	BotName   string
	CreatedAt time.Time
}

// GetBinding looks up the agent bound to a sender.
func (s *Store) GetBinding(channel, senderID string) (Binding, error) {
	var b Binding
	err := s.db.QueryRow(
		"SELECT channel, sender_id, agent_id, bot_name, created_at FROM bindings WHERE channel = ? AND sender_id = ?",
		channel, senderID,
	).Scan(&b.Channel, &b.SenderID, &b.AgentID, &b.BotName, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Binding{}, ErrUnbound
	}
	if err != nil {
		return Binding{}, err
	}
	return b, nil
}

// PutBinding creates or replaces a binding. Reconnecting the same
// sender to a different agent overwrites the old row.
func (s *Store) PutBinding(b Binding) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO bindings (channel, sender_id, agent_id, bot_name, created_at) VALUES (?, ?, ?, ?, ?)",
		b.Channel, b.SenderID, b.AgentID, b.BotName, time.Now(),
	)
	return err
}

// DeleteBinding removes a binding; subsequent messages from the sender
// are unresolved again.
func (s *Store) DeleteBinding(channel, senderID string) error {
	_, err := s.db.Exec("DELETE FROM bindings WHERE channel = ? AND sender_id = ?", channel, senderID)
	return err
}

// CreatePairingCode stores a single-use code for an agent.
func (s *Store) CreatePairingCode(code, agentID string, ttl time.Duration) error {
	_, err := s.db.Exec(
		"INSERT INTO pairing_codes (code, agent_id, expires_at, used) VALUES (?, ?, ?, 0)",
		code, agentID, time.Now().Add(ttl),
	)
	return err
}

// ConsumePairingCode marks a code used and returns its agent. The
// update and the read run in one transaction so two senders racing on
// the same code cannot both pair.
func (s *Store) ConsumePairingCode(code string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var agentID string
	var expires time.Time
	var used bool
	err = tx.QueryRow(
		"SELECT agent_id, expires_at, used FROM pairing_codes WHERE code = ?", code,
	).Scan(&agentID, &expires, &used)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("unknown pairing code")
	}
	if err != nil {
		return "", err
	}
	if used {
		return "", fmt.Errorf("pairing code already used")
	}
	if time.Now().After(expires) {
		return "", fmt.Errorf("pairing code expired")
	}
	if _, err := tx.Exec("UPDATE pairing_codes SET used = 1 WHERE code = ?", code); err != nil {
		return "", err
	}
	return agentID, tx.Commit()
}
