package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimals(t *testing.T) {
	dec, err := parseDecimals(common.LeftPadBytes(big.NewInt(18).Bytes(), 32))
	require.NoError(t, err)
	assert.Equal(t, uint8(18), dec)

	dec, err = parseDecimals(common.LeftPadBytes(big.NewInt(255).Bytes(), 32))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), dec)

	// Values beyond uint8 are rejected, never truncated.
	_, err = parseDecimals(common.LeftPadBytes(big.NewInt(256).Bytes(), 32))
	assert.Error(t, err)

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	_, err = parseDecimals(common.LeftPadBytes(huge.Bytes(), 32))
	assert.Error(t, err)
}

func TestAmountUsesTokenDecimals(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, "1.5", Amount(raw, 18).Text('f', 1))

	assert.Equal(t, "2", Amount(big.NewInt(2000000), 6).Text('f', 0))
}
