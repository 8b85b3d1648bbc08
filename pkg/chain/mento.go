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

// MentoClient quotes rates from the oracle and hands swap execution to
// the broker service, which holds the agent keys and builds the
// transaction. Transaction construction is deliberately outside this
// process.
type MentoClient struct {
	oracle Oracle
	broker string
	client *http.Client
}

func NewMentoClient(oracle Oracle, brokerURL string) *MentoClient {
	return &MentoClient{
		oracle: oracle,
		broker: brokerURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *MentoClient) QuoteSwap(ctx context.Context, from, to Token, amount *big.Float) (Quote, error) {
	fromPrice, err := m.oracle.Price(ctx, from.Symbol, "USD")
	if err != nil {
		return Quote{}, fmt.Errorf("quote %s: %w", from.Symbol, err)
	}
	toPrice, err := m.oracle.Price(ctx, to.Symbol, "USD")
	if err != nil {
		return Quote{}, fmt.Errorf("quote %s: %w", to.Symbol, err)
	}
	if toPrice == 0 {
		return Quote{}, fmt.Errorf("no price for %s", to.Symbol)
	}
	rate := fromPrice / toPrice
	out := new(big.Float).Mul(amount, big.NewFloat(rate))
	return Quote{From: from, To: to, Amount: amount, Out: out, Rate: rate}, nil
}

func (m *MentoClient) Swap(ctx context.Context, wallet common.Address, from, to Token, amount *big.Float) (string, *big.Float, error) {
	payload, _ := json.Marshal(map[string]string{
		"wallet": wallet.Hex(),
		"from":   from.Symbol,
		"to":     to.Symbol,
		"amount": amount.Text('f', 6),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.broker+"/v1/swap", bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("broker swap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("broker returned %s", resp.Status)
	}
	var body struct {
		TxHash string `json:"tx_hash"`
		Out    string `json:"out"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", nil, fmt.Errorf("broker response: %w", err)
	}
	out, _, err := big.ParseFloat(body.Out, 10, 128, big.ToNearestEven)
	if err != nil {
		return "", nil, fmt.Errorf("broker returned bad amount %q", body.Out)
	}
	return body.TxHash, out, nil
}
