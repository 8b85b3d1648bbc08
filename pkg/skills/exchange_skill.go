package skills

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/engine"
)

func (s *skillSet) mentoSwap(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagMentoSwap)
	if !ec.HasWallet() {
		return engine.NeedsWallet(cap), nil
	}
	from, to, amountRaw := arg(args, 0), arg(args, 1), arg(args, 2)
	if from == "" || to == "" || amountRaw == "" {
		return engine.Usage(cap, "need from, to and amount"), nil
	}
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return engine.Usage(cap, err.Error()), nil
	}
	fromTok, err := s.deps.Tokens.Resolve(ctx, from)
	if err != nil {
		return engine.Failure("⚠️ %v", err), nil
	}
	toTok, err := s.deps.Tokens.Resolve(ctx, to)
	if err != nil {
		return engine.Failure("⚠️ %v", err), nil
	}
	wallet := common.HexToAddress(ec.WalletAddress)
	txHash, out, err := s.deps.Exchange.Swap(ctx, wallet, fromTok, toTok, amount)
	if err != nil {
		return engine.Outcome{}, err
	}
	return engine.Success(
		fmt.Sprintf("✅ Swapped %s %s for %s %s (tx %s)",
			fmtAmount(amount), fromTok.Symbol, fmtAmount(out), toTok.Symbol, txHash),
		map[string]any{"from": fromTok.Symbol, "to": toTok.Symbol,
			"amount": fmtAmount(amount), "out": fmtAmount(out), "tx_hash": txHash},
	), nil
}
