package chain

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC-20 function selectors. Celo stables are plain ERC-20 contracts.
var (
	selBalanceOf = common.Hex2Bytes("70a08231")
	selDecimals  = common.Hex2Bytes("313ce567")
)

// Client is the ethclient-backed Ledger and TokenRegistry. Celo is
// EVM-compatible, so a stock JSON-RPC client covers everything the
// read-only capabilities need.
type Client struct {
	eth    *ethclient.Client
	tokens []Token
}

// Dial connects to a Celo RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial celo rpc: %w", err)
	}
	return &Client{eth: eth, tokens: celoTokens()}, nil
}

// celoTokens is the built-in registry of Mento assets on mainnet.
func celoTokens() []Token {
	return []Token{
		{Symbol: "CELO", Name: "Celo", Decimals: 18, Native: true},
		{Symbol: "cUSD", Name: "Celo Dollar", Decimals: 18,
			Address: common.HexToAddress("0x765DE816845861e75A25fCA122bb6898B8B1282a")},
		{Symbol: "cEUR", Name: "Celo Euro", Decimals: 18,
			Address: common.HexToAddress("0xD8763CBa276a3738E6DE85b4b3bF5FDed6D6cA73")},
		{Symbol: "cREAL", Name: "Celo Real", Decimals: 18,
			Address: common.HexToAddress("0xe8537a3d056DA446677B9E9d6c5dB704EaAb4787")},
	}
}

func (c *Client) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", addr.Hex(), err)
	}
	return bal, nil
}

func (c *Client) TokenBalance(ctx context.Context, token Token, holder common.Address) (*big.Int, error) {
	if token.Native {
		return c.NativeBalance(ctx, holder)
	}
	data := append(append([]byte{}, selBalanceOf...), common.LeftPadBytes(holder.Bytes(), 32)...)
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token.Address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s balanceOf %s: %w", token.Symbol, holder.Hex(), err)
	}
	return new(big.Int).SetBytes(res), nil
}

// Resolve maps a symbol or a hex address to a Token. Addresses outside
// the built-in registry are probed on-chain for decimals.
func (c *Client) Resolve(ctx context.Context, symbolOrAddress string) (Token, error) {
	for _, t := range c.tokens {
		if strings.EqualFold(t.Symbol, symbolOrAddress) {
			return t, nil
		}
	}
	if !common.IsHexAddress(symbolOrAddress) {
		return Token{}, fmt.Errorf("unknown token %q", symbolOrAddress)
	}
	addr := common.HexToAddress(symbolOrAddress)
	for _, t := range c.tokens {
		if t.Address == addr {
			return t, nil
		}
	}
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: selDecimals}, nil)
	if err != nil || len(res) == 0 {
		return Token{}, fmt.Errorf("address %s is not an ERC-20 token", addr.Hex())
	}
	decimals, err := parseDecimals(res)
	if err != nil {
		return Token{}, fmt.Errorf("address %s: %w", addr.Hex(), err)
	}
	return Token{
		Symbol:   addr.Hex(),
		Name:     "Unknown token",
		Address:  addr,
		Decimals: decimals,
	}, nil
}

// parseDecimals decodes a decimals() return value. A contract is free
// to return any uint256; anything that does not fit uint8 is rejected
// rather than truncated.
func parseDecimals(res []byte) (uint8, error) {
	v := new(big.Int).SetBytes(res)
	if !v.IsUint64() || v.Uint64() > math.MaxUint8 {
		return 0, fmt.Errorf("reports out-of-range decimals %s", v.String())
	}
	return uint8(v.Uint64()), nil
}

func (c *Client) Known(ctx context.Context) ([]Token, error) {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out, nil
}

func (c *Client) Close() {
	c.eth.Close()
}
