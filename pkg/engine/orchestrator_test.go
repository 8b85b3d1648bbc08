package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

func mustRegister(t *testing.T, r *Registry, tag string, h Handler) {
	t.Helper()
	cap, ok := catalog.ByTag(tag)
	require.True(t, ok, "catalog entry for %s", tag)
	require.NoError(t, r.Register(cap, h))
}

func staticHandler(text string) Handler {
	return func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		return Success(text, nil), nil
	}
}

func TestExecuteReplacesDirectiveInPlace(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, catalog.TagMentoQuote, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		require.Equal(t, []string{"CELO", "cUSD", "10"}, args)
		return Success("💱 Mento quote: 10 CELO → 10 cUSD (rate 1.0000)", map[string]any{"rate": 1.0}), nil
	})
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), `swap now [[MENTO_QUOTE|CELO|cUSD|10]] please`, Context{})
	assert.Equal(t, 1, n)
	assert.Contains(t, out, "rate 1.0000")
	assert.NotContains(t, out, "[[MENTO_QUOTE")
	assert.True(t, strings.HasPrefix(out, "swap now "))
	assert.True(t, strings.HasSuffix(out, " please"))
}

func TestExecuteLeavesUnknownTagsVerbatim(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, catalog.TagCeloPrice, staticHandler("📈 price"))
	o := NewOrchestrator(r, zap.NewNop())

	text := "look [[UNKNOWN_TAG|x]] here"
	out, n := o.Execute(context.Background(), text, Context{})
	assert.Equal(t, 0, n)
	assert.Equal(t, text, out)
}

func TestExecuteCountsOnlyRegisteredTags(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, catalog.TagCeloPrice, staticHandler("📈 price"))
	o := NewOrchestrator(r, zap.NewNop())

	// PORTFOLIO is in the catalog but has no handler here; it must
	// survive byte-for-byte.
	text := "[[CELO_PRICE]] and [[PORTFOLIO]] and [[FAKE_TAG|1]]"
	out, n := o.Execute(context.Background(), text, Context{})
	assert.Equal(t, 1, n)
	assert.Contains(t, out, "[[PORTFOLIO]]")
	assert.Contains(t, out, "[[FAKE_TAG|1]]")
	assert.NotContains(t, out, "[[CELO_PRICE]]")
}

func TestExecuteOrderIsLeftToRight(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(tag string) Handler {
		return func(ctx context.Context, args []string, ec Context) (Outcome, error) {
			mu.Lock()
			order = append(order, tag)
			mu.Unlock()
			return Success("done "+tag, nil), nil
		}
	}
	r := NewRegistry()
	mustRegister(t, r, catalog.TagCeloPrice, record("CELO_PRICE"))
	mustRegister(t, r, catalog.TagPortfolio, record("PORTFOLIO"))
	mustRegister(t, r, catalog.TagAgentInfo, record("AGENT_INFO"))
	o := NewOrchestrator(r, zap.NewNop())

	_, n := o.Execute(context.Background(), "[[PORTFOLIO]] x [[AGENT_INFO]] y [[CELO_PRICE]]", Context{})
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"PORTFOLIO", "AGENT_INFO", "CELO_PRICE"}, order)
}

func TestFailingHandlerDoesNotStopSiblings(t *testing.T) {
	r := NewRegistry()
	// Mutating capability: fails once, no retry.
	mustRegister(t, r, catalog.TagMentoSwap, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		return Outcome{}, errors.New("broker unreachable")
	})
	mustRegister(t, r, catalog.TagCeloPrice, staticHandler("📈 1.00 USD"))
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), "[[MENTO_SWAP|CELO|cUSD|5]] then [[CELO_PRICE]]", Context{})
	assert.Equal(t, 1, n)
	assert.Contains(t, out, "broker unreachable")
	assert.Contains(t, out, "📈 1.00 USD")
	assert.NotContains(t, out, "[[MENTO_SWAP")
}

func TestPanickingHandlerIsContained(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, catalog.TagMentoSwap, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		panic("boom")
	})
	mustRegister(t, r, catalog.TagAgentInfo, staticHandler("🤖 agent"))
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), "[[MENTO_SWAP|a|b|1]] [[AGENT_INFO]]", Context{})
	assert.Equal(t, 1, n)
	assert.Contains(t, out, "handler panic")
	assert.Contains(t, out, "🤖 agent")
}

func TestFailedOutcomeStillReplacesDirective(t *testing.T) {
	r := NewRegistry()
	cap, _ := catalog.ByTag(catalog.TagMentoQuote)
	mustRegister(t, r, catalog.TagMentoQuote, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		return Usage(cap, "need from, to and amount"), nil
	})
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), "[[MENTO_QUOTE]]", Context{})
	assert.Equal(t, 0, n)
	assert.Contains(t, out, "usage:")
	assert.Contains(t, out, "[[MENTO_QUOTE|<from>|<to>|<amount>]]")
	assert.NotEqual(t, "[[MENTO_QUOTE]]", strings.TrimSpace(out))
}

func TestDuplicateDirectivesEachExecuteOnce(t *testing.T) {
	count := 0
	r := NewRegistry()
	mustRegister(t, r, catalog.TagCeloPrice, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		count++
		return Success(fmt.Sprintf("📈 call %d", count), nil), nil
	})
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), "[[CELO_PRICE]] mid [[CELO_PRICE]]", Context{})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, count)
	// Positional splice: each occurrence gets its own rendering.
	assert.Contains(t, out, "📈 call 1")
	assert.Contains(t, out, "📈 call 2")
	assert.NotContains(t, out, "[[CELO_PRICE]]")
}

func TestReadOnlyHandlerRetriesTransientError(t *testing.T) {
	attempts := 0
	r := NewRegistry()
	mustRegister(t, r, catalog.TagCeloPrice, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		attempts++
		if attempts < 3 {
			return Outcome{}, errors.New("oracle flaked")
		}
		return Success("📈 recovered", nil), nil
	})
	o := NewOrchestrator(r, zap.NewNop())

	out, n := o.Execute(context.Background(), "[[CELO_PRICE]]", Context{})
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, out, "recovered")
}

func TestMutatingHandlerNeverRetries(t *testing.T) {
	attempts := 0
	r := NewRegistry()
	mustRegister(t, r, catalog.TagMentoSwap, func(ctx context.Context, args []string, ec Context) (Outcome, error) {
		attempts++
		return Outcome{}, errors.New("nope")
	})
	o := NewOrchestrator(r, zap.NewNop())

	_, n := o.Execute(context.Background(), "[[MENTO_SWAP|a|b|1]]", Context{})
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, attempts)
}

func TestNoDirectivesIsIdentity(t *testing.T) {
	o := NewOrchestrator(NewRegistry(), zap.NewNop())
	text := "nothing to do here"
	out, n := o.Execute(context.Background(), text, Context{})
	assert.Equal(t, text, out)
	assert.Equal(t, 0, n)
}
