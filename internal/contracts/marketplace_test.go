// internal/contracts/marketplace_test.go
package contracts

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type marketFixture struct {
	chain  *Chain
	reg    *CopyrightRegistry
	nft    *KaryaNFT
	market *KaryaMarketplace
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	chain := NewChain()
	reg := DeployCopyrightRegistry(chain, deployer)
	nft := DeployKaryaNFT(chain, deployer, reg)
	market, err := DeployKaryaMarketplace(chain, deployer, treasury, nft)
	require.NoError(t, err)
	return &marketFixture{chain: chain, reg: reg, nft: nft, market: market}
}

// mintApproved registers a work for the creator, mints its token at the given
// royalty and approves the marketplace for it.
func (f *marketFixture) mintApproved(t *testing.T, creator common.Address, seed byte, royaltyBps uint16) uint64 {
	t.Helper()
	copyrightID, err := f.reg.RegisterCopyright(creator, contentHash(seed), "QmCID", "Test Artwork", "", AssetTypeArt, nil)
	require.NoError(t, err)
	tokenID, err := f.nft.Mint(creator, copyrightID, "ipfs://meta", royaltyBps)
	require.NoError(t, err)
	require.NoError(t, f.nft.Approve(creator, f.market.Address(), tokenID))
	return tokenID
}

func (f *marketFixture) fund(t *testing.T, addr common.Address, amount *big.Int) {
	t.Helper()
	require.NoError(t, f.chain.Deposit(addr, amount))
}

func TestDeployMarketplaceRejectsZeroFeeRecipient(t *testing.T) {
	chain := NewChain()
	reg := DeployCopyrightRegistry(chain, deployer)
	nft := DeployKaryaNFT(chain, deployer, reg)

	_, err := DeployKaryaMarketplace(chain, deployer, common.Address{}, nft)
	assert.ErrorIs(t, err, ErrInvalidFeeRecipient)
}

func TestListNFT(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), listingID)

	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.Equal(t, f.nft.Address(), listing.NFTContract)
	assert.Equal(t, tokenID, listing.TokenID)
	assert.Equal(t, alice, listing.Seller)
	assert.Equal(t, milliEther(1000), listing.Price)
	assert.True(t, listing.Active)

	active, ok := f.market.ActiveListingForToken(f.nft.Address(), tokenID)
	require.True(t, ok)
	assert.Equal(t, listingID, active)
}

func TestListNFTValidation(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	// not the owner
	_, err := f.market.ListNFT(bob, f.nft.Address(), tokenID, milliEther(1000))
	var notOwner *NotNFTOwnerError
	assert.ErrorAs(t, err, &notOwner)

	// unknown token contract
	_, err = f.market.ListNFT(alice, carol, tokenID, milliEther(1000))
	assert.ErrorIs(t, err, ErrUnknownNFTContract)

	// zero price
	_, err = f.market.ListNFT(alice, f.nft.Address(), tokenID, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// marketplace not approved
	copyrightID, err := f.reg.RegisterCopyright(bob, contentHash(2), "Qm", "W", "", AssetTypeArt, nil)
	require.NoError(t, err)
	unapproved, err := f.nft.Mint(bob, copyrightID, "ipfs://meta", 1000)
	require.NoError(t, err)
	_, err = f.market.ListNFT(bob, f.nft.Address(), unapproved, milliEther(1000))
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestListNFTRejectsDoubleListing(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	first, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	_, err = f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(2000))
	var already *NFTAlreadyListedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, first, already.ListingID)
}

func TestBuyNFTPrimarySaleSettlement(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1500)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	f.fund(t, bob, milliEther(2000))
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1000)))

	// platform 2.5%, royalty 15%, proceeds the rest; seller == royalty
	// receiver on a primary sale so alice nets 0.975 ETH
	assert.Equal(t, milliEther(975), f.chain.BalanceOf(alice))
	assert.Equal(t, milliEther(25), f.chain.BalanceOf(treasury))
	assert.Equal(t, milliEther(1000), f.chain.BalanceOf(bob))

	owner, err := f.nft.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.False(t, listing.Active)
	_, stillListed := f.market.ActiveListingForToken(f.nft.Address(), tokenID)
	assert.False(t, stillListed)
}

func TestBuyNFTResaleSplitsRoyaltyToCreator(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1500)

	// primary sale to bob
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	f.fund(t, bob, milliEther(1000))
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1000)))

	// bob relists at the same price and carol buys
	require.NoError(t, f.nft.Approve(bob, f.market.Address(), tokenID))
	resaleID, err := f.market.ListNFT(bob, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	assert.Greater(t, resaleID, listingID)

	f.fund(t, carol, milliEther(1000))
	aliceBefore := f.chain.BalanceOf(alice)
	require.NoError(t, f.market.BuyNFT(carol, resaleID, milliEther(1000)))

	// creator gets the 15% royalty, reseller the 82.5% proceeds
	royalty := new(big.Int).Sub(f.chain.BalanceOf(alice), aliceBefore)
	assert.Equal(t, milliEther(150), royalty)
	assert.Equal(t, milliEther(825), f.chain.BalanceOf(bob))
	assert.Equal(t, milliEther(50), f.chain.BalanceOf(treasury)) // two sales
	assert.Equal(t, big.NewInt(0), f.chain.BalanceOf(carol))

	owner, err := f.nft.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, carol, owner)
}

func TestBuyNFTRefundsOverpayment(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	f.fund(t, bob, milliEther(1500))
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1500)))

	// only the listing price leaves the buyer; the 0.5 ETH excess stays
	assert.Equal(t, milliEther(500), f.chain.BalanceOf(bob))
}

func TestBuyNFTInsufficientPayment(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	f.fund(t, bob, milliEther(1000))
	err = f.market.BuyNFT(bob, listingID, milliEther(999))
	var short *InsufficientPaymentError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, milliEther(1000), short.Required)
	assert.Equal(t, milliEther(999), short.Sent)

	// listing untouched
	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.True(t, listing.Active)
}

func TestBuyNFTUnfundedBuyer(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	err = f.market.BuyNFT(bob, listingID, milliEther(1000))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.True(t, listing.Active)
}

func TestBuyNFTUnknownAndInactiveListing(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	f.fund(t, bob, milliEther(3000))

	err := f.market.BuyNFT(bob, 99, milliEther(1000))
	var notFound *ListingNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint64(99), notFound.ID)

	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1000)))

	// second purchase of the same listing loses the race
	err = f.market.BuyNFT(bob, listingID, milliEther(1000))
	var inactive *ListingNotActiveError
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, listingID, inactive.ID)
}

func TestBuyNFTSettlementConservation(t *testing.T) {
	f := newMarketFixture(t)

	// awkward price that does not divide evenly by the bps denominator
	price := big.NewInt(1000000000000000003)
	royalties := []uint16{500, 777, 1000, 1333, 2000}

	for i, bps := range royalties {
		tokenID := f.mintApproved(t, alice, byte(20+i), bps)
		listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, price)
		require.NoError(t, err)

		f.fund(t, bob, price)
		mark := len(f.chain.Logs())
		require.NoError(t, f.market.BuyNFT(bob, listingID, price))

		logs := f.chain.LogsSince(mark)
		var sold NFTSold
		found := false
		for _, l := range logs {
			if ev, ok := l.Event.(NFTSold); ok {
				sold = ev
				found = true
			}
		}
		require.True(t, found)

		sum := new(big.Int).Add(sold.PlatformFee, sold.RoyaltyAmount)
		sum.Add(sum, sold.SellerProceeds)
		assert.Equal(t, price, sum, "split must conserve the price exactly at %d bps", bps)

		// hand the token back to alice for the next round
		require.NoError(t, f.nft.TransferFrom(bob, bob, alice, tokenID))
		require.NoError(t, f.nft.Approve(alice, f.market.Address(), tokenID))
	}
}

func TestBuyNFTEmitsSoldEvent(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1500)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	f.fund(t, bob, milliEther(1000))
	mark := len(f.chain.Logs())
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1000)))

	logs := f.chain.LogsSince(mark)
	require.NotEmpty(t, logs)
	last := logs[len(logs)-1]
	assert.Equal(t, f.market.Address(), last.Contract)
	assert.Equal(t, Topic(NFTSold{}), last.Topic)

	sold, ok := last.Event.(NFTSold)
	require.True(t, ok)
	assert.Equal(t, listingID, sold.ListingID)
	assert.Equal(t, alice, sold.Seller)
	assert.Equal(t, bob, sold.Buyer)
	assert.Equal(t, milliEther(1000), sold.Price)
	assert.Equal(t, milliEther(25), sold.PlatformFee)
	assert.Equal(t, milliEther(150), sold.RoyaltyAmount)
	assert.Equal(t, milliEther(825), sold.SellerProceeds)
}

func TestCancelListing(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	err = f.market.CancelListing(bob, listingID)
	assert.ErrorIs(t, err, ErrNotSeller)

	require.NoError(t, f.market.CancelListing(alice, listingID))

	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.False(t, listing.Active)

	// the token never moved and the approval survives cancellation
	owner, err := f.nft.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	approved, err := f.nft.GetApproved(tokenID)
	require.NoError(t, err)
	assert.Equal(t, f.market.Address(), approved)

	// cancelled is final
	err = f.market.CancelListing(alice, listingID)
	var inactive *ListingNotActiveError
	assert.ErrorAs(t, err, &inactive)
}

func TestRelistAfterCancelGetsNewID(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)

	first, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	require.NoError(t, f.market.CancelListing(alice, first))

	second, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1200))
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
	assert.Equal(t, uint64(2), f.market.TotalListings())
}

func TestUpdateListingPrice(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	err = f.market.UpdateListingPrice(bob, listingID, milliEther(500))
	assert.ErrorIs(t, err, ErrNotSeller)

	err = f.market.UpdateListingPrice(alice, listingID, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	mark := len(f.chain.Logs())
	require.NoError(t, f.market.UpdateListingPrice(alice, listingID, milliEther(2000)))

	listing, err := f.market.GetListing(listingID)
	require.NoError(t, err)
	assert.Equal(t, milliEther(2000), listing.Price)

	logs := f.chain.LogsSince(mark)
	require.Len(t, logs, 1)
	updated, ok := logs[0].Event.(ListingUpdated)
	require.True(t, ok)
	assert.Equal(t, milliEther(1000), updated.OldPrice)
	assert.Equal(t, milliEther(2000), updated.NewPrice)
}

func TestUpdatePlatformFeeRecipient(t *testing.T) {
	f := newMarketFixture(t)

	err := f.market.UpdatePlatformFeeRecipient(alice, carol)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = f.market.UpdatePlatformFeeRecipient(deployer, common.Address{})
	assert.ErrorIs(t, err, ErrInvalidFeeRecipient)

	require.NoError(t, f.market.UpdatePlatformFeeRecipient(deployer, carol))
	assert.Equal(t, carol, f.market.PlatformFeeRecipient())

	// fees from later sales land on the new recipient
	tokenID := f.mintApproved(t, alice, 1, 1000)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)
	f.fund(t, bob, milliEther(1000))
	require.NoError(t, f.market.BuyNFT(bob, listingID, milliEther(1000)))

	assert.Equal(t, milliEther(25), f.chain.BalanceOf(carol))
	assert.Equal(t, big.NewInt(0), f.chain.BalanceOf(treasury))
}

func TestConcurrentBuyersExactlyOneWins(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	buyers := []common.Address{bob, carol}
	for _, b := range buyers {
		f.fund(t, b, milliEther(1000))
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, b := range buyers {
		wg.Add(1)
		go func(i int, b common.Address) {
			defer wg.Done()
			errs[i] = f.market.BuyNFT(b, listingID, milliEther(1000))
		}(i, b)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			var inactive *ListingNotActiveError
			require.ErrorAs(t, err, &inactive)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// the loser kept their funds
	total := new(big.Int).Add(f.chain.BalanceOf(bob), f.chain.BalanceOf(carol))
	assert.Equal(t, milliEther(1000), total)
}

func TestBuyAfterSellerMovedToken(t *testing.T) {
	f := newMarketFixture(t)
	tokenID := f.mintApproved(t, alice, 1, 1000)
	listingID, err := f.market.ListNFT(alice, f.nft.Address(), tokenID, milliEther(1000))
	require.NoError(t, err)

	// seller transfers the token away behind the listing's back
	require.NoError(t, f.nft.TransferFrom(alice, alice, carol, tokenID))

	f.fund(t, bob, milliEther(1000))
	err = f.market.BuyNFT(bob, listingID, milliEther(1000))
	var notOwner *NotNFTOwnerError
	require.ErrorAs(t, err, &notOwner)

	// nothing was settled
	assert.Equal(t, milliEther(1000), f.chain.BalanceOf(bob))
	assert.Equal(t, big.NewInt(0), f.chain.BalanceOf(treasury))
}
