// internal/contracts/marketplace.go
package contracts

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PlatformFeeBps is the marketplace cut on every sale, fixed at deploy.
const PlatformFeeBps = 250 // 2.5%

var ErrUnknownNFTContract = errors.New("nft contract not supported by this marketplace")

// SaleToken is the NFT dependency the marketplace settles against. The
// concrete contracts are injected at deploy time and all calls run under the
// shared chain lock.
type SaleToken interface {
	Address() common.Address
	ownerOf(tokenID uint64) (common.Address, bool)
	approvedFor(operator common.Address, tokenID uint64) bool
	transfer(from, to common.Address, tokenID uint64) error
	royaltyInfo(tokenID uint64, salePrice *big.Int) (common.Address, *big.Int, error)
}

// Listing is an active offer to sell one token at a fixed price. Active flips
// to false exactly once, on sale or cancellation, and never back; relisting
// allocates a fresh listing id.
type Listing struct {
	ID          uint64
	NFTContract common.Address
	TokenID     uint64
	Seller      common.Address
	Price       *big.Int
	Active      bool
}

type tokenKey struct {
	contract common.Address
	tokenID  uint64
}

// KaryaMarketplace lists NFTs and settles purchases with an atomic three-way
// split between seller, royalty receiver and platform. The contract holds no
// value of its own; every payment flows through BuyNFT.
type KaryaMarketplace struct {
	chain *Chain
	addr  common.Address
	owner common.Address

	tokens       map[common.Address]SaleToken
	feeRecipient common.Address

	nextListingID uint64
	listings      map[uint64]*Listing
	activeByToken map[tokenKey]uint64
}

func DeployKaryaMarketplace(chain *Chain, deployer, feeRecipient common.Address, tokens ...SaleToken) (*KaryaMarketplace, error) {
	if feeRecipient == (common.Address{}) {
		return nil, ErrInvalidFeeRecipient
	}
	m := &KaryaMarketplace{
		chain:         chain,
		addr:          chain.nextContractAddress(deployer),
		owner:         deployer,
		tokens:        make(map[common.Address]SaleToken, len(tokens)),
		feeRecipient:  feeRecipient,
		nextListingID: 1,
		listings:      make(map[uint64]*Listing),
		activeByToken: make(map[tokenKey]uint64),
	}
	for _, t := range tokens {
		m.tokens[t.Address()] = t
	}
	return m, nil
}

// Address returns the marketplace's deployed contract address.
func (m *KaryaMarketplace) Address() common.Address { return m.addr }

// Owner returns the deployer, who administers the fee recipient.
func (m *KaryaMarketplace) Owner() common.Address { return m.owner }

// PlatformFeeRecipient returns the current fee recipient.
func (m *KaryaMarketplace) PlatformFeeRecipient() common.Address {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	return m.feeRecipient
}

// ListNFT creates an active listing. The caller must currently own the token
// and must have approved the marketplace for it beforehand; a token can have
// at most one active listing at a time.
func (m *KaryaMarketplace) ListNFT(caller, nftContract common.Address, tokenID uint64, price *big.Int) (uint64, error) {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	token, ok := m.tokens[nftContract]
	if !ok {
		return 0, ErrUnknownNFTContract
	}
	owner, ok := token.ownerOf(tokenID)
	if !ok {
		return 0, &TokenNotFoundError{ID: tokenID}
	}
	if owner != caller {
		return 0, &NotNFTOwnerError{Caller: caller, Owner: owner, TokenID: tokenID}
	}
	if !token.approvedFor(m.addr, tokenID) {
		return 0, ErrNotApproved
	}
	if price == nil || price.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}
	key := tokenKey{contract: nftContract, tokenID: tokenID}
	if existing, listed := m.activeByToken[key]; listed {
		return 0, &NFTAlreadyListedError{ListingID: existing}
	}

	id := m.nextListingID
	m.nextListingID++

	m.listings[id] = &Listing{
		ID:          id,
		NFTContract: nftContract,
		TokenID:     tokenID,
		Seller:      caller,
		Price:       new(big.Int).Set(price),
		Active:      true,
	}
	m.activeByToken[key] = id

	m.chain.emit(m.addr, NFTListed{
		ListingID:   id,
		NFTContract: nftContract,
		TokenID:     tokenID,
		Seller:      caller,
		Price:       new(big.Int).Set(price),
	})
	return id, nil
}

// BuyNFT settles a purchase: transfers the token to the buyer and splits the
// price between seller, royalty receiver and platform in the same call.
// value plays the role of msg.value; any excess over the price stays with the
// buyer. The split always runs three ways - when seller and royalty receiver
// are the same address (a primary sale) the two credits simply land on one
// account.
func (m *KaryaMarketplace) BuyNFT(buyer common.Address, listingID uint64, value *big.Int) error {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	listing, ok := m.listings[listingID]
	if !ok {
		return &ListingNotFoundError{ID: listingID}
	}
	if !listing.Active {
		return &ListingNotActiveError{ID: listingID}
	}
	if value == nil || value.Cmp(listing.Price) < 0 {
		sent := new(big.Int)
		if value != nil {
			sent.Set(value)
		}
		return &InsufficientPaymentError{Required: new(big.Int).Set(listing.Price), Sent: sent}
	}

	token := m.tokens[listing.NFTContract]
	owner, ok := token.ownerOf(listing.TokenID)
	if !ok {
		return &TokenNotFoundError{ID: listing.TokenID}
	}
	if owner != listing.Seller {
		return &NotNFTOwnerError{Caller: listing.Seller, Owner: owner, TokenID: listing.TokenID}
	}
	if !token.approvedFor(m.addr, listing.TokenID) {
		return ErrNotApproved
	}
	if bal, funded := m.chain.balances[buyer]; !funded || bal.Cmp(listing.Price) < 0 {
		return ErrInsufficientFunds
	}

	price := new(big.Int).Set(listing.Price)
	platformFee := new(big.Int).Mul(price, big.NewInt(PlatformFeeBps))
	platformFee.Div(platformFee, big.NewInt(bpsDenominator))

	royaltyReceiver, royaltyAmount, err := token.royaltyInfo(listing.TokenID, price)
	if err != nil {
		return err
	}
	sellerProceeds := new(big.Int).Sub(price, platformFee)
	sellerProceeds.Sub(sellerProceeds, royaltyAmount)

	// Effects before interactions: the listing is dead before any value or
	// token moves, so a competing call observes ListingNotActive.
	listing.Active = false
	delete(m.activeByToken, tokenKey{contract: listing.NFTContract, tokenID: listing.TokenID})

	if err := token.transfer(listing.Seller, buyer, listing.TokenID); err != nil {
		return err
	}
	if err := m.chain.debit(buyer, price); err != nil {
		return err
	}
	m.chain.credit(listing.Seller, sellerProceeds)
	m.chain.credit(royaltyReceiver, royaltyAmount)
	m.chain.credit(m.feeRecipient, platformFee)

	m.chain.emit(m.addr, NFTSold{
		ListingID:      listingID,
		TokenID:        listing.TokenID,
		Seller:         listing.Seller,
		Buyer:          buyer,
		Price:          price,
		PlatformFee:    platformFee,
		RoyaltyAmount:  royaltyAmount,
		SellerProceeds: sellerProceeds,
	})
	return nil
}

// CancelListing deactivates a listing without moving the token. Only the
// seller may cancel, and only while the listing is still active. The
// marketplace's transfer approval on the token is untouched.
func (m *KaryaMarketplace) CancelListing(caller common.Address, listingID uint64) error {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	listing, ok := m.listings[listingID]
	if !ok {
		return &ListingNotFoundError{ID: listingID}
	}
	if !listing.Active {
		return &ListingNotActiveError{ID: listingID}
	}
	if listing.Seller != caller {
		return ErrNotSeller
	}

	listing.Active = false
	delete(m.activeByToken, tokenKey{contract: listing.NFTContract, tokenID: listing.TokenID})
	m.chain.emit(m.addr, ListingCancelled{ListingID: listingID, Seller: caller})
	return nil
}

// UpdateListingPrice changes the price of an active listing, seller only.
func (m *KaryaMarketplace) UpdateListingPrice(caller common.Address, listingID uint64, newPrice *big.Int) error {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	listing, ok := m.listings[listingID]
	if !ok {
		return &ListingNotFoundError{ID: listingID}
	}
	if !listing.Active {
		return &ListingNotActiveError{ID: listingID}
	}
	if listing.Seller != caller {
		return ErrNotSeller
	}
	if newPrice == nil || newPrice.Sign() <= 0 {
		return ErrInvalidPrice
	}

	oldPrice := listing.Price
	listing.Price = new(big.Int).Set(newPrice)
	m.chain.emit(m.addr, ListingUpdated{
		ListingID: listingID,
		OldPrice:  oldPrice,
		NewPrice:  new(big.Int).Set(newPrice),
	})
	return nil
}

// UpdatePlatformFeeRecipient redirects future platform fees. Deployer only.
func (m *KaryaMarketplace) UpdatePlatformFeeRecipient(caller, recipient common.Address) error {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()

	if caller != m.owner {
		return ErrNotOwner
	}
	if recipient == (common.Address{}) {
		return ErrInvalidFeeRecipient
	}

	old := m.feeRecipient
	m.feeRecipient = recipient
	m.chain.emit(m.addr, PlatformFeeRecipientUpdated{OldRecipient: old, NewRecipient: recipient})
	return nil
}

// GetListing returns a copy of the listing with the given id.
func (m *KaryaMarketplace) GetListing(listingID uint64) (Listing, error) {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	listing, ok := m.listings[listingID]
	if !ok {
		return Listing{}, &ListingNotFoundError{ID: listingID}
	}
	out := *listing
	out.Price = new(big.Int).Set(listing.Price)
	return out, nil
}

// ActiveListingForToken returns the id of the token's active listing, if any.
func (m *KaryaMarketplace) ActiveListingForToken(nftContract common.Address, tokenID uint64) (uint64, bool) {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	id, ok := m.activeByToken[tokenKey{contract: nftContract, tokenID: tokenID}]
	return id, ok
}

// TotalListings returns how many listings were ever created.
func (m *KaryaMarketplace) TotalListings() uint64 {
	m.chain.mu.Lock()
	defer m.chain.mu.Unlock()
	return m.nextListingID - 1
}
