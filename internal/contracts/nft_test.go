// internal/contracts/nft_test.go
package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNFTFixture(t *testing.T) (*Chain, *CopyrightRegistry, *KaryaNFT) {
	t.Helper()
	chain := NewChain()
	reg := DeployCopyrightRegistry(chain, deployer)
	nft := DeployKaryaNFT(chain, deployer, reg)
	return chain, reg, nft
}

func registerWork(t *testing.T, reg *CopyrightRegistry, creator common.Address, seed byte) uint64 {
	t.Helper()
	id, err := reg.RegisterCopyright(creator, contentHash(seed), "QmCID", "Work", "", AssetTypeArt, nil)
	require.NoError(t, err)
	return id
}

func TestMintHappyPath(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1500)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tokenID)

	owner, err := nft.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	assert.Equal(t, uint64(1), nft.BalanceOf(alice))

	uri, err := nft.TokenURI(tokenID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://meta", uri)

	mapped, ok := nft.TokenByCopyright(copyrightID)
	require.True(t, ok)
	assert.Equal(t, tokenID, mapped)
	back, err := nft.CopyrightByToken(tokenID)
	require.NoError(t, err)
	assert.Equal(t, copyrightID, back)
}

func TestMintSequentialTokenIDs(t *testing.T) {
	_, reg, nft := newNFTFixture(t)

	c1 := registerWork(t, reg, alice, 1)
	c2 := registerWork(t, reg, bob, 2)

	t1, err := nft.Mint(alice, c1, "ipfs://1", 500)
	require.NoError(t, err)
	t2, err := nft.Mint(bob, c2, "ipfs://2", 2000)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), t1)
	assert.Equal(t, uint64(2), t2)
	assert.Equal(t, uint64(2), nft.TotalMinted())
}

func TestMintOnlyByCopyrightCreator(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	_, err := nft.Mint(bob, copyrightID, "ipfs://meta", 1000)
	var notOwner *NotCopyrightOwnerError
	require.ErrorAs(t, err, &notOwner)
	assert.Equal(t, bob, notOwner.Caller)
	assert.Equal(t, alice, notOwner.Expected)
}

func TestMintUnknownCopyright(t *testing.T) {
	_, _, nft := newNFTFixture(t)

	_, err := nft.Mint(alice, 42, "ipfs://meta", 1000)
	var notFound *CopyrightNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint64(42), notFound.ID)
}

func TestMintOncePerCopyright(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)

	_, err = nft.Mint(alice, copyrightID, "ipfs://again", 1000)
	var already *CopyrightAlreadyMintedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, copyrightID, already.CopyrightID)
	assert.Equal(t, tokenID, already.ExistingTokenID)
}

func TestMintOnceSurvivesTransfer(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)
	require.NoError(t, nft.TransferFrom(alice, alice, bob, tokenID))

	// the creator still cannot re-mint after giving the token away
	_, err = nft.Mint(alice, copyrightID, "ipfs://again", 1000)
	var already *CopyrightAlreadyMintedError
	require.ErrorAs(t, err, &already)

	// and neither can the new holder
	_, err = nft.Mint(bob, copyrightID, "ipfs://again", 1000)
	var notOwner *NotCopyrightOwnerError
	require.ErrorAs(t, err, &notOwner)
}

func TestMintRoyaltyBounds(t *testing.T) {
	_, reg, nft := newNFTFixture(t)

	cases := []struct {
		name string
		bps  uint16
		ok   bool
	}{
		{"below min", 499, false},
		{"at min", 500, true},
		{"at max", 2000, true},
		{"above max", 2001, false},
		{"zero", 0, false},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			copyrightID := registerWork(t, reg, alice, byte(10+i))
			_, err := nft.Mint(alice, copyrightID, "ipfs://meta", tc.bps)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var invalid *InvalidRoyaltyPercentageError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tc.bps, invalid.Given)
				assert.Equal(t, MinRoyaltyBps, invalid.Min)
				assert.Equal(t, MaxRoyaltyBps, invalid.Max)
			}
		})
	}
}

func TestMintEmptyTokenURI(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	_, err := nft.Mint(alice, copyrightID, "", 1000)
	assert.ErrorIs(t, err, ErrEmptyTokenURI)
}

func TestMintWithDefaultRoyalty(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.MintWithDefaultRoyalty(alice, copyrightID, "ipfs://meta")
	require.NoError(t, err)

	receiver, amount, err := nft.RoyaltyInfo(tokenID, big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, alice, receiver)
	assert.Equal(t, int64(1000), amount.Int64()) // 10%
}

func TestRoyaltyInfoMath(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1500)
	require.NoError(t, err)

	receiver, amount, err := nft.RoyaltyInfo(tokenID, milliEther(1000)) // 1 ETH
	require.NoError(t, err)
	assert.Equal(t, alice, receiver)
	assert.Equal(t, milliEther(150), amount) // 0.15 ETH

	// truncating division
	_, amount, err = nft.RoyaltyInfo(tokenID, big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount.Int64())

	_, _, err = nft.RoyaltyInfo(99, big.NewInt(1))
	var notFound *TokenNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateRoyaltyByCreatorAfterTransfer(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)
	require.NoError(t, nft.TransferFrom(alice, alice, bob, tokenID))

	// the current holder is not the copyright creator and may not touch it
	err = nft.UpdateRoyalty(bob, tokenID, bob, 1500)
	var notOwner *NotCopyrightOwnerError
	require.ErrorAs(t, err, &notOwner)

	// the creator still can, even without holding the token
	require.NoError(t, nft.UpdateRoyalty(alice, tokenID, carol, 2000))

	receiver, amount, err := nft.RoyaltyInfo(tokenID, big.NewInt(10000))
	require.NoError(t, err)
	assert.Equal(t, carol, receiver)
	assert.Equal(t, int64(2000), amount.Int64())
}

func TestUpdateRoyaltyValidation(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)
	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)

	err = nft.UpdateRoyalty(alice, 99, alice, 1000)
	var notFound *TokenNotFoundError
	require.ErrorAs(t, err, &notFound)

	err = nft.UpdateRoyalty(alice, tokenID, alice, 2001)
	var invalid *InvalidRoyaltyPercentageError
	require.ErrorAs(t, err, &invalid)

	err = nft.UpdateRoyalty(alice, tokenID, common.Address{}, 1000)
	assert.ErrorIs(t, err, ErrInvalidRoyaltyReceiver)
}

func TestTransferSemantics(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)
	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)

	// unapproved third party cannot move the token
	err = nft.TransferFrom(bob, alice, bob, tokenID)
	assert.ErrorIs(t, err, ErrNotApproved)

	// wrong from address
	err = nft.TransferFrom(alice, bob, carol, tokenID)
	var notOwner *NotNFTOwnerError
	assert.ErrorAs(t, err, &notOwner)

	// zero address destination
	err = nft.TransferFrom(alice, alice, common.Address{}, tokenID)
	assert.ErrorIs(t, err, ErrTransferToZeroAddress)

	// owner transfer works and updates balances
	require.NoError(t, nft.TransferFrom(alice, alice, bob, tokenID))
	owner, err := nft.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	assert.Equal(t, uint64(0), nft.BalanceOf(alice))
	assert.Equal(t, uint64(1), nft.BalanceOf(bob))
}

func TestApprovalFlow(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)
	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)

	// only the owner (or an operator) may approve
	err = nft.Approve(bob, bob, tokenID)
	var notOwner *NotNFTOwnerError
	require.ErrorAs(t, err, &notOwner)

	require.NoError(t, nft.Approve(alice, bob, tokenID))
	approved, err := nft.GetApproved(tokenID)
	require.NoError(t, err)
	assert.Equal(t, bob, approved)

	// approved address can transfer, and the approval is consumed
	require.NoError(t, nft.TransferFrom(bob, alice, carol, tokenID))
	approved, err = nft.GetApproved(tokenID)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, approved)
}

func TestOperatorApproval(t *testing.T) {
	_, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)
	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)

	nft.SetApprovalForAll(alice, bob, true)
	assert.True(t, nft.IsApprovedForAll(alice, bob))

	require.NoError(t, nft.TransferFrom(bob, alice, carol, tokenID))

	nft.SetApprovalForAll(alice, bob, false)
	assert.False(t, nft.IsApprovedForAll(alice, bob))
}

func TestMintEmitsEvents(t *testing.T) {
	chain, reg, nft := newNFTFixture(t)
	copyrightID := registerWork(t, reg, alice, 1)

	mark := len(chain.Logs())
	tokenID, err := nft.Mint(alice, copyrightID, "ipfs://meta", 1500)
	require.NoError(t, err)

	logs := chain.LogsSince(mark)
	require.Len(t, logs, 2)

	transfer, ok := logs[0].Event.(Transfer)
	require.True(t, ok)
	assert.Equal(t, common.Address{}, transfer.From)
	assert.Equal(t, alice, transfer.To)
	assert.Equal(t, tokenID, transfer.TokenID)

	minted, ok := logs[1].Event.(NFTMinted)
	require.True(t, ok)
	assert.Equal(t, tokenID, minted.TokenID)
	assert.Equal(t, copyrightID, minted.CopyrightID)
	assert.Equal(t, uint16(1500), minted.RoyaltyBps)
}
