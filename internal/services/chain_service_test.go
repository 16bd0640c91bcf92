// internal/services/chain_service_test.go
package services

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
)

func chainConfig(faucetWei string) *config.Config {
	return &config.Config{
		Environment: "development",
		Chain: config.ChainConfig{
			FeeRecipient:      "0x000000000000000000000000000000000000fee5",
			DefaultRoyaltyBps: 1000,
			FaucetWei:         faucetWei,
		},
	}
}

func TestNewChainServiceDeploysContracts(t *testing.T) {
	svc, err := NewChainService(chainConfig("0"))
	require.NoError(t, err)

	registry := svc.Registry().Address()
	nft := svc.NFT().Address()
	marketplace := svc.Marketplace().Address()

	assert.NotEqual(t, common.Address{}, registry)
	assert.NotEqual(t, registry, nft)
	assert.NotEqual(t, nft, marketplace)

	assert.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000fee5"), svc.Deployer())
	assert.Equal(t, svc.Deployer(), svc.Marketplace().PlatformFeeRecipient())
}

func TestNewChainServiceRejectsBadConfig(t *testing.T) {
	cfg := chainConfig("0")
	cfg.Chain.FeeRecipient = "not-an-address"
	_, err := NewChainService(cfg)
	assert.Error(t, err)

	cfg = chainConfig("-5")
	_, err = NewChainService(cfg)
	assert.Error(t, err)
}

func TestFaucet(t *testing.T) {
	svc, err := NewChainService(chainConfig("1000000000000000000"))
	require.NoError(t, err)

	buyer := common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	balance, err := svc.Faucet(buyer)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", balance.String())

	// credits accumulate
	balance, err = svc.Faucet(buyer)
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", balance.String())
	assert.Equal(t, balance, svc.BalanceOf(buyer))
}

func TestFaucetDisabledWhenZero(t *testing.T) {
	svc, err := NewChainService(chainConfig("0"))
	require.NoError(t, err)

	_, err = svc.Faucet(common.HexToAddress("0x0000000000000000000000000000000000000b0b"))
	assert.ErrorIs(t, err, ErrFaucetDisabled)
}

func TestStatsReflectChainActivity(t *testing.T) {
	svc, err := NewChainService(chainConfig("0"))
	require.NoError(t, err)

	stats := svc.Stats()
	assert.Equal(t, uint64(0), stats.TotalRegistrations)
	assert.Equal(t, uint64(0), stats.TotalMinted)
	assert.Equal(t, uint64(0), stats.TotalListings)
	assert.Equal(t, 0, stats.EventCount)

	alice := common.HexToAddress("0x0000000000000000000000000000000000000a11")
	var hash common.Hash
	hash[0] = 1
	id, err := svc.Registry().RegisterCopyright(alice, hash, "QmCID", "Work", "", contracts.AssetTypeArt, nil)
	require.NoError(t, err)
	_, err = svc.NFT().Mint(alice, id, "ipfs://meta", 500)
	require.NoError(t, err)

	// register emits one event, mint emits Transfer plus NFTMinted
	stats = svc.Stats()
	assert.Equal(t, uint64(1), stats.TotalRegistrations)
	assert.Equal(t, uint64(1), stats.TotalMinted)
	assert.Equal(t, 3, stats.EventCount)
	assert.Len(t, svc.LogsSince(1), 2)
}

func TestDeposit(t *testing.T) {
	svc, err := NewChainService(chainConfig("0"))
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000000ca")
	require.NoError(t, svc.Deposit(addr, big.NewInt(42)))
	assert.Equal(t, "42", svc.BalanceOf(addr).String())
}
