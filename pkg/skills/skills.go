// Package skills implements the capability handlers behind each
// directive tag. Every handler gets its collaborators through Deps so
// tests can swap in doubles.
package skills

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/chain"
	"github.com/nathfavour/agentpesa/pkg/engine"
	"github.com/nathfavour/agentpesa/pkg/identity"
)

func capByTag(tag string) (catalog.Capability, bool) {
	return catalog.ByTag(tag)
}

// Deps carries the injected external collaborators.
type Deps struct {
	Ledger    chain.Ledger
	Tokens    chain.TokenRegistry
	Oracle    chain.Oracle
	Exchange  chain.Exchange
	Registrar chain.Registrar
	Sponsor   chain.Sponsor
	Agents    *identity.Registry
	Log       *zap.Logger
}

// Build registers every non-transfer capability handler and verifies
// the registry is total. Call once at startup.
func Build(deps Deps) (*engine.Registry, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	r := engine.NewRegistry()
	s := &skillSet{deps: deps}

	for _, reg := range []struct {
		tag string
		h   engine.Handler
	}{
		{"CELO_BALANCE", s.celoBalance},
		{"TOKEN_BALANCE", s.tokenBalance},
		{"TOKEN_INFO", s.tokenInfo},
		{"CELO_PRICE", s.celoPrice},
		{"TOKEN_PRICE", s.tokenPrice},
		{"MENTO_QUOTE", s.mentoQuote},
		{"MENTO_SWAP", s.mentoSwap},
		{"PORTFOLIO", s.portfolio},
		{"REGISTER_WALLET", s.registerWallet},
		{"AGENT_INFO", s.agentInfo},
		{"REQUEST_SPONSORSHIP", s.requestSponsorship},
	} {
		cap, ok := capByTag(reg.tag)
		if !ok {
			return nil, fmt.Errorf("no catalog entry for tag %s", reg.tag)
		}
		if err := r.Register(cap, reg.h); err != nil {
			return nil, err
		}
	}
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}

type skillSet struct {
	deps Deps
}

// arg returns the i-th argument or "" when absent.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// holderAddress resolves the address a balance query targets: an
// explicit argument wins, otherwise the agent wallet.
func holderAddress(explicit string, ec engine.Context) (common.Address, error) {
	if explicit != "" {
		if !common.IsHexAddress(explicit) {
			return common.Address{}, fmt.Errorf("%q is not a valid address", explicit)
		}
		return common.HexToAddress(explicit), nil
	}
	if !ec.HasWallet() {
		return common.Address{}, fmt.Errorf("no wallet")
	}
	return common.HexToAddress(ec.WalletAddress), nil
}

func parseAmount(raw string) (*big.Float, error) {
	raw = strings.TrimSpace(raw)
	amount, _, err := big.ParseFloat(raw, 10, 128, big.ToNearestEven)
	if err != nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%q is not a positive amount", raw)
	}
	return amount, nil
}

func fmtAmount(a *big.Float) string {
	return strings.TrimRight(strings.TrimRight(a.Text('f', 4), "0"), ".")
}
