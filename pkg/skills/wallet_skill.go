package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/chain"
	"github.com/nathfavour/agentpesa/pkg/engine"
)

func (s *skillSet) registerWallet(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	if ec.HasWallet() {
		return engine.Success(
			fmt.Sprintf("ℹ️ Wallet already registered: %s", ec.WalletAddress),
			map[string]any{"address": ec.WalletAddress},
		), nil
	}
	addr, index, txHash, err := s.deps.Registrar.RegisterWallet(ctx, ec.AgentID)
	if err != nil {
		return engine.Outcome{}, err
	}
	if s.deps.Agents != nil {
		if err := s.deps.Agents.SetWallet(ec.AgentID, addr.Hex(), index); err != nil {
			s.deps.Log.Error("failed to persist wallet", zap.String("agent", ec.AgentID), zap.Error(err))
		}
	}
	return engine.Success(
		fmt.Sprintf("✅ Wallet registered: %s (tx %s)", addr.Hex(), txHash),
		map[string]any{"address": addr.Hex(), "index": index, "tx_hash": txHash},
	), nil
}

func (s *skillSet) agentInfo(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	wallet := ec.WalletAddress
	if wallet == "" {
		wallet = "not initialized"
	}
	return engine.Success(
		fmt.Sprintf("🤖 @%s — template: %s, wallet: %s",
			ec.AgentHandle, ec.AgentTemplate, wallet),
		map[string]any{"id": ec.AgentID, "handle": ec.AgentHandle,
			"template": ec.AgentTemplate, "wallet": ec.WalletAddress},
	), nil
}

func (s *skillSet) requestSponsorship(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagRequestSponsorship)
	if !ec.HasWallet() {
		return engine.NeedsWallet(cap), nil
	}
	reason := strings.Join(args, " ")
	txHash, amount, err := s.deps.Sponsor.RequestGas(ctx, common.HexToAddress(ec.WalletAddress), reason)
	if err != nil {
		return engine.Outcome{}, err
	}
	return engine.Success(
		fmt.Sprintf("✅ Sponsorship granted: %s CELO (tx %s)", fmtAmount(amount), txHash),
		map[string]any{"amount": fmtAmount(amount), "tx_hash": txHash},
	), nil
}

func (s *skillSet) portfolio(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagPortfolio)
	if !ec.HasWallet() {
		return engine.NeedsWallet(cap), nil
	}
	holder := common.HexToAddress(ec.WalletAddress)
	tokens, err := s.deps.Tokens.Known(ctx)
	if err != nil {
		return engine.Outcome{}, err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Portfolio of %s:\n", holder.Hex()))
	holdings := make([]map[string]any, 0, len(tokens))
	totalUSD := 0.0
	for _, t := range tokens {
		raw, err := s.deps.Ledger.TokenBalance(ctx, t, holder)
		if err != nil {
			b.WriteString(fmt.Sprintf("  %s: unavailable (%v)\n", t.Symbol, err))
			continue
		}
		amount := chain.Amount(raw, t.Decimals)
		if amount.Sign() == 0 {
			continue
		}
		line := fmt.Sprintf("  %s %s", fmtAmount(amount), t.Symbol)
		value, _ := amount.Float64()
		if price, err := s.deps.Oracle.Price(ctx, t.Symbol, "USD"); err == nil {
			usd := value * price
			totalUSD += usd
			line += fmt.Sprintf(" (≈ $%.2f)", usd)
		}
		b.WriteString(line + "\n")
		holdings = append(holdings, map[string]any{"token": t.Symbol, "amount": fmtAmount(amount)})
	}
	if len(holdings) == 0 {
		b.WriteString("  (empty)\n")
	} else {
		b.WriteString(fmt.Sprintf("  Total ≈ $%.2f", totalUSD))
	}
	return engine.Success(strings.TrimRight(b.String(), "\n"),
		map[string]any{"address": holder.Hex(), "holdings": holdings, "total_usd": totalUSD}), nil
}
