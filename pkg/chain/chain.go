// Package chain defines the external collaborators capability handlers
// call into: the ledger, the token registry, the price oracle, the
// Mento exchange, the wallet registrar and the gas sponsor. Handlers
// depend on these interfaces only; concrete clients are injected at
// startup so tests can substitute doubles.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes one asset the system knows how to talk about.
type Token struct {
	Symbol   string
	Name     string
	Address  common.Address
	Decimals uint8
	// Native marks the chain's base asset, which has no contract.
	Native bool
}

// Ledger reads balances from the chain.
type Ledger interface {
	NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, token Token, holder common.Address) (*big.Int, error)
}

// TokenRegistry resolves token symbols and addresses.
type TokenRegistry interface {
	Resolve(ctx context.Context, symbolOrAddress string) (Token, error)
	Known(ctx context.Context) ([]Token, error)
}

// Oracle quotes spot prices. Quote currency defaults to USD when empty.
type Oracle interface {
	Price(ctx context.Context, symbol, quote string) (float64, error)
}

// Quote is one exchange-rate quote from Mento.
type Quote struct {
	From   Token
	To     Token
	Amount *big.Float
	Out    *big.Float
	Rate   float64
}

// Exchange quotes and executes Mento swaps.
type Exchange interface {
	QuoteSwap(ctx context.Context, from, to Token, amount *big.Float) (Quote, error)
	Swap(ctx context.Context, wallet common.Address, from, to Token, amount *big.Float) (txHash string, out *big.Float, err error)
}

// Registrar performs on-chain agent wallet registration. Key
// derivation and transaction construction live behind this boundary.
type Registrar interface {
	RegisterWallet(ctx context.Context, agentID string) (addr common.Address, index uint32, txHash string, err error)
}

// Sponsor funds agent wallets with gas.
type Sponsor interface {
	RequestGas(ctx context.Context, wallet common.Address, reason string) (txHash string, amount *big.Float, err error)
}

// Amount renders a raw integer balance using the token's decimals.
func Amount(raw *big.Int, decimals uint8) *big.Float {
	f := new(big.Float).SetInt(raw)
	div := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	return new(big.Float).Quo(f, div)
}
