package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathfavour/agentpesa/pkg/catalog"
	"github.com/nathfavour/agentpesa/pkg/engine"
)

func (s *skillSet) celoPrice(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	quote := strings.ToUpper(arg(args, 0))
	if quote == "" {
		quote = "USD"
	}
	price, err := s.deps.Oracle.Price(ctx, "CELO", quote)
	if err != nil {
		return engine.Outcome{}, err
	}
	return engine.Success(
		fmt.Sprintf("📈 CELO is trading at %.4f %s", price, quote),
		map[string]any{"token": "CELO", "quote": quote, "price": price},
	), nil
}

func (s *skillSet) tokenPrice(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagTokenPrice)
	symbol := arg(args, 0)
	if symbol == "" {
		return engine.Usage(cap, "missing token"), nil
	}
	token, err := s.deps.Tokens.Resolve(ctx, symbol)
	if err != nil {
		return engine.Failure("⚠️ %v", err), nil
	}
	quote := strings.ToUpper(arg(args, 1))
	if quote == "" {
		quote = "USD"
	}
	price, err := s.deps.Oracle.Price(ctx, token.Symbol, quote)
	if err != nil {
		return engine.Outcome{}, err
	}
	return engine.Success(
		fmt.Sprintf("📈 %s is trading at %.4f %s", token.Symbol, price, quote),
		map[string]any{"token": token.Symbol, "quote": quote, "price": price},
	), nil
}

func (s *skillSet) mentoQuote(ctx context.Context, args []string, ec engine.Context) (engine.Outcome, error) {
	cap, _ := capByTag(catalog.TagMentoQuote)
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
	q, err := s.deps.Exchange.QuoteSwap(ctx, fromTok, toTok, amount)
	if err != nil {
		return engine.Outcome{}, err
	}
	return engine.Success(
		fmt.Sprintf("💱 Mento quote: %s %s → %s %s (rate %.4f)",
			fmtAmount(q.Amount), q.From.Symbol, fmtAmount(q.Out), q.To.Symbol, q.Rate),
		map[string]any{"from": q.From.Symbol, "to": q.To.Symbol,
			"amount": fmtAmount(q.Amount), "out": fmtAmount(q.Out), "rate": q.Rate},
	), nil
}
