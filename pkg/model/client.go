// Package model is the client for the external text-generation
// service. The engine never talks to the model directly; it only
// consumes the text this client returns.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nathfavour/agentpesa/pkg/engine"
)

// Client implements engine.Generator against the generation service.
// The capability block for the agent's template rides along as part of
// the system instructions.
type Client struct {
	base     string
	registry *engine.Registry
	client   *http.Client
}

func NewClient(baseURL string, registry *engine.Registry) *Client {
	return &Client{
		base:     baseURL,
		registry: registry,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Reply(ctx context.Context, ec engine.Context, message string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"agent":    ec.AgentHandle,
		"template": ec.AgentTemplate,
		"system":   c.registry.RenderCapabilityBlock(ec.AgentTemplate, ec.WalletAddress),
		"message":  message,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned %s", resp.Status)
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("generation response: %w", err)
	}
	return body.Text, nil
}
