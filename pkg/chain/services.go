package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// HTTPRegistrar calls the wallet service to derive and register an
// agent wallet on-chain. Key derivation never happens in this process.
type HTTPRegistrar struct {
	base   string
	client *http.Client
}

func NewHTTPRegistrar(baseURL string) *HTTPRegistrar {
	return &HTTPRegistrar{base: baseURL, client: &http.Client{Timeout: 60 * time.Second}}
}

func (r *HTTPRegistrar) RegisterWallet(ctx context.Context, agentID string) (common.Address, uint32, string, error) {
	payload, _ := json.Marshal(map[string]string{"agent_id": agentID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+"/v1/wallets", bytes.NewReader(payload))
	if err != nil {
		return common.Address{}, 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return common.Address{}, 0, "", fmt.Errorf("wallet service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return common.Address{}, 0, "", fmt.Errorf("wallet service returned %s", resp.Status)
	}
	var body struct {
		Address string `json:"address"`
		Index   uint32 `json:"index"`
		TxHash  string `json:"tx_hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return common.Address{}, 0, "", fmt.Errorf("wallet service response: %w", err)
	}
	if !common.IsHexAddress(body.Address) {
		return common.Address{}, 0, "", fmt.Errorf("wallet service returned bad address %q", body.Address)
	}
	return common.HexToAddress(body.Address), body.Index, body.TxHash, nil
}

// HTTPSponsor calls the gas sponsor service.
type HTTPSponsor struct {
	base   string
	client *http.Client
}

func NewHTTPSponsor(baseURL string) *HTTPSponsor {
	return &HTTPSponsor{base: baseURL, client: &http.Client{Timeout: 60 * time.Second}}
}

func (s *HTTPSponsor) RequestGas(ctx context.Context, wallet common.Address, reason string) (string, *big.Float, error) {
	payload, _ := json.Marshal(map[string]string{
		"wallet": wallet.Hex(),
		"reason": reason,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/v1/sponsorships", bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("sponsor service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", nil, fmt.Errorf("sponsor service returned %s", resp.Status)
	}
	var body struct {
		TxHash string  `json:"tx_hash"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Errorf("sponsor response: %w", err)
	}
	return body.TxHash, big.NewFloat(body.Amount), nil
}
