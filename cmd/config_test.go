package cmd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/remitx-network/remitx-ledger/types"
)

func TestConfig(t *testing.T) {
	file, err := types.ParseConfig("../config/sample-config.yaml")
	require.NoError(t, err, "Error parsing config")

	require.Equal(t, uint64(2810), file.HomeChainSelector)
	require.Equal(t, uint64(50), file.RemittanceFeeBps)

	// assert token entries correctly parsed
	usdc, ok := file.Tokens["USDC"]
	require.True(t, ok)
	require.Equal(t, uint8(6), usdc.Decimals)
	require.Equal(t, "100000000", usdc.Price)

	dai, ok := file.Tokens["DAI"]
	require.True(t, ok)
	require.Equal(t, uint8(18), dai.Decimals)

	// assert chain selectors correctly parsed
	require.Equal(t, uint64(16015286601757825753), file.Chains["sepolia"])
}

func TestConfigGatewayBaseFees(t *testing.T) {
	file, err := types.ParseConfig("../config/sample-config.yaml")
	require.NoError(t, err, "Error parsing config")

	// sepolia base fee is set to 0.001 native in the sample config
	expected := "1000000000000000"

	require.Equal(t, expected, file.Gateway.BaseFees[16015286601757825753])
}
