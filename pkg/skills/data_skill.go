package skills

import (
	"context"
	"fmt"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/chain"
	"github.com/nathfavour/agentpesa/pkg/engine"
)

func (s *skillSet) celoBalance(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagCeloBalance)
	if arg(args, 0) == "" && !ec.HasWallet() {
		return engine.NeedsWallet(cap), nil
	}
	holder, err := holderAddress(arg(args, 0), ec)
	if err != nil {
		return engine.Usage(cap, err.Error()), nil
	}
	raw, err := s.deps.Ledger.NativeBalance(ctx, holder)
	if err != nil {
		return engine.Outcome{}, err
	}
	amount := chain.Amount(raw, 18)
	return engine.Success(
		fmt.Sprintf("💰 CELO balance of %s: %s CELO", holder.Hex(), fmtAmount(amount)),
		map[string]any{"address": holder.Hex(), "balance": fmtAmount(amount), "token": "CELO"},
	), nil
}

func (s *skillSet) tokenBalance(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagTokenBalance)
	symbol := arg(args, 0)
	if symbol == "" {
		return engine.Usage(cap, "missing token"), nil
	}
	if arg(args, 1) == "" && !ec.HasWallet() {
		return engine.NeedsWallet(cap), nil
	}
	holder, err := holderAddress(arg(args, 1), ec)
	if err != nil {
		return engine.Usage(cap, err.Error()), nil
	}
	token, err := s.deps.Tokens.Resolve(ctx, symbol)
	if err != nil {
		return engine.Failure("⚠️ %v", err), nil
	}
	raw, err := s.deps.Ledger.TokenBalance(ctx, token, holder)
	if err != nil {
		return engine.Outcome{}, err
	}
	amount := chain.Amount(raw, token.Decimals)
	return engine.Success(
		fmt.Sprintf("💰 %s balance of %s: %s %s", token.Symbol, holder.Hex(), fmtAmount(amount), token.Symbol),
		map[string]any{"address": holder.Hex(), "balance": fmtAmount(amount), "token": token.Symbol},
	), nil
}

func (s *skillSet) tokenInfo(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagTokenInfo)
	symbol := arg(args, 0)
	if symbol == "" {
		return engine.Usage(cap, "missing token"), nil
	}
	token, err := s.deps.Tokens.Resolve(ctx, symbol)
	if err != nil {
		return engine.Failure("⚠️ %v", err), nil
	}
	addr := "native"
	if !token.Native {
		addr = token.Address.Hex()
	}
	return engine.Success(
		fmt.Sprintf("ℹ️ %s (%s) — %d decimals, contract: %s", token.Name, token.Symbol, token.Decimals, addr),
		map[string]any{"symbol": token.Symbol, "name": token.Name, "decimals": token.Decimals, "address": addr},
	), nil
}
