package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

func noop(ctx context.Context, args []string, ec Context) (Outcome, error) {
	return Success("ok", nil), nil
}

func TestRegisterRejectsTransferCapabilities(t *testing.T) {
	r := NewRegistry()
	cap, ok := catalog.ByTag(catalog.TagSendCelo)
	require.True(t, ok)
	assert.Error(t, r.Register(cap, noop))
	assert.False(t, r.Has(catalog.TagSendCelo))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	cap, _ := catalog.ByTag(catalog.TagCeloPrice)
	require.NoError(t, r.Register(cap, noop))
	assert.Error(t, r.Register(cap, noop))
}

func TestRegisterRejectsNilHandler(t *testing.T) {
	r := NewRegistry()
	cap, _ := catalog.ByTag(catalog.TagCeloPrice)
	assert.Error(t, r.Register(cap, nil))
}

func TestVerifyFailsWhenIncomplete(t *testing.T) {
	r := NewRegistry()
	cap, _ := catalog.ByTag(catalog.TagCeloPrice)
	require.NoError(t, r.Register(cap, noop))
	assert.Error(t, r.Verify())
}

func TestListAllExcludesTransfers(t *testing.T) {
	r := NewRegistry()
	for _, c := range r.ListAll() {
		assert.False(t, c.IsTransfer())
	}
	assert.NotEmpty(t, r.ListAll())
}

func TestListForTemplateExcludesTransfers(t *testing.T) {
	r := NewRegistry()
	// payments carries the transfer tags in the catalog; they must be
	// filtered out of the engine's view.
	for _, c := range r.ListForTemplate("payments") {
		assert.False(t, c.IsTransfer())
	}
	assert.NotEmpty(t, r.ListForTemplate("payments"))
}

func TestListForTemplateUnknownFallsBack(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, r.ListForTemplate("default"), r.ListForTemplate("bogus"))
}
