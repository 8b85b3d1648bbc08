package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

func TestRenderEmptyWhenNoCapabilities(t *testing.T) {
	assert.Equal(t, "", renderCapabilities(nil, ""))
	assert.Equal(t, "", renderCapabilities([]catalog.Capability{}, "0xabc"))
}

func TestRenderIncludesSyntaxAndExamples(t *testing.T) {
	r := NewRegistry()
	block := r.RenderCapabilityBlock("trader", "0x32Be343B94f860124dC4fEe278FDCBD38C102D88")

	assert.Contains(t, block, "**Mento Quote**")
	assert.Contains(t, block, "[[MENTO_QUOTE|<from>|<to>|<amount>]]")
	assert.Contains(t, block, `user says "how much cUSD would 10 CELO get me?"`)
	assert.Contains(t, block, "[[MENTO_QUOTE|CELO|cUSD|10]]")
}

func TestRenderExcludesTransferCapabilities(t *testing.T) {
	r := NewRegistry()
	block := r.RenderCapabilityBlock("payments", "")
	assert.NotContains(t, block, "SEND_CELO")
	assert.NotContains(t, block, "SEND_TOKEN")
	assert.NotEmpty(t, block)
}

func TestWalletWarningOnlyWithoutWallet(t *testing.T) {
	r := NewRegistry()

	without := r.RenderCapabilityBlock("trader", "")
	assert.Contains(t, without, "⚠️ Requires wallet (not initialized)")

	with := r.RenderCapabilityBlock("trader", "0x32Be343B94f860124dC4fEe278FDCBD38C102D88")
	assert.NotContains(t, with, "Requires wallet")
}

func TestWalletWarningOnlyOnWalletCapabilities(t *testing.T) {
	r := NewRegistry()
	block := r.RenderCapabilityBlock("analyst", "")
	// analyst has no wallet-gated capabilities.
	require.NotEmpty(t, block)
	assert.NotContains(t, block, "Requires wallet")
}

func TestRenderOnePerCapability(t *testing.T) {
	r := NewRegistry()
	block := r.RenderCapabilityBlock("trader", "0xabc")
	caps := r.ListForTemplate("trader")
	assert.Equal(t, len(caps), strings.Count(block, "  Tag: [["))
}
