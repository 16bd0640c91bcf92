// internal/contracts/nft.go
package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Royalty bounds in basis points.
const (
	MinRoyaltyBps     uint16 = 500  // 5%
	MaxRoyaltyBps     uint16 = 2000 // 20%
	DefaultRoyaltyBps uint16 = 1000 // 10%

	bpsDenominator = 10000
)

// CreatorLookup is the registry dependency KaryaNFT is deployed against.
// Injected at construction; calls run under the shared chain lock.
type CreatorLookup interface {
	creatorOf(copyrightID uint64) (common.Address, bool)
}

type royaltyConfig struct {
	receiver common.Address
	bps      uint16
}

// KaryaNFT mints at most one token per registered copyright and carries
// per-token ERC-2981 royalty info. Token ids are sequential from 1. The
// mint-once guarantee is keyed by copyright id, so it survives any number of
// later transfers of the token itself.
type KaryaNFT struct {
	chain    *Chain
	addr     common.Address
	registry CreatorLookup

	nextTokenID uint64
	owners      map[uint64]common.Address
	balances    map[common.Address]uint64
	tokenURIs   map[uint64]string
	approvals   map[uint64]common.Address
	operators   map[common.Address]map[common.Address]bool
	royalties   map[uint64]royaltyConfig

	copyrightToToken map[uint64]uint64
	tokenToCopyright map[uint64]uint64
}

func DeployKaryaNFT(chain *Chain, deployer common.Address, registry CreatorLookup) *KaryaNFT {
	return &KaryaNFT{
		chain:            chain,
		addr:             chain.nextContractAddress(deployer),
		registry:         registry,
		nextTokenID:      1,
		owners:           make(map[uint64]common.Address),
		balances:         make(map[common.Address]uint64),
		tokenURIs:        make(map[uint64]string),
		approvals:        make(map[uint64]common.Address),
		operators:        make(map[common.Address]map[common.Address]bool),
		royalties:        make(map[uint64]royaltyConfig),
		copyrightToToken: make(map[uint64]uint64),
		tokenToCopyright: make(map[uint64]uint64),
	}
}

// Address returns the NFT contract's deployed address.
func (n *KaryaNFT) Address() common.Address { return n.addr }

// Mint creates the token for a copyright. Only the registered creator may
// mint, each copyright mints at most once, and the royalty rate must fall
// inside [MinRoyaltyBps, MaxRoyaltyBps]. The token is minted to the creator
// with the creator as royalty receiver.
func (n *KaryaNFT) Mint(caller common.Address, copyrightID uint64, tokenURI string, royaltyBps uint16) (uint64, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()

	creator, ok := n.registry.creatorOf(copyrightID)
	if !ok {
		return 0, &CopyrightNotFoundError{ID: copyrightID}
	}
	if caller != creator {
		return 0, &NotCopyrightOwnerError{Caller: caller, Expected: creator}
	}
	if existing, minted := n.copyrightToToken[copyrightID]; minted {
		return 0, &CopyrightAlreadyMintedError{CopyrightID: copyrightID, ExistingTokenID: existing}
	}
	if royaltyBps < MinRoyaltyBps || royaltyBps > MaxRoyaltyBps {
		return 0, &InvalidRoyaltyPercentageError{Given: royaltyBps, Min: MinRoyaltyBps, Max: MaxRoyaltyBps}
	}
	if tokenURI == "" {
		return 0, ErrEmptyTokenURI
	}

	tokenID := n.nextTokenID
	n.nextTokenID++

	n.owners[tokenID] = creator
	n.balances[creator]++
	n.tokenURIs[tokenID] = tokenURI
	n.copyrightToToken[copyrightID] = tokenID
	n.tokenToCopyright[tokenID] = copyrightID
	n.royalties[tokenID] = royaltyConfig{receiver: creator, bps: royaltyBps}

	n.chain.emit(n.addr, Transfer{From: common.Address{}, To: creator, TokenID: tokenID})
	n.chain.emit(n.addr, NFTMinted{
		TokenID:     tokenID,
		CopyrightID: copyrightID,
		Creator:     creator,
		TokenURI:    tokenURI,
		RoyaltyBps:  royaltyBps,
	})

	return tokenID, nil
}

// MintWithDefaultRoyalty mints with the platform default of 10%.
func (n *KaryaNFT) MintWithDefaultRoyalty(caller common.Address, copyrightID uint64, tokenURI string) (uint64, error) {
	return n.Mint(caller, copyrightID, tokenURI, DefaultRoyaltyBps)
}

// UpdateRoyalty changes a token's royalty receiver and rate. Only the
// original copyright creator may call it, regardless of who currently holds
// the token.
func (n *KaryaNFT) UpdateRoyalty(caller common.Address, tokenID uint64, newReceiver common.Address, newBps uint16) error {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()

	copyrightID, ok := n.tokenToCopyright[tokenID]
	if !ok {
		return &TokenNotFoundError{ID: tokenID}
	}
	creator, ok := n.registry.creatorOf(copyrightID)
	if !ok {
		return &CopyrightNotFoundError{ID: copyrightID}
	}
	if caller != creator {
		return &NotCopyrightOwnerError{Caller: caller, Expected: creator}
	}
	if newBps < MinRoyaltyBps || newBps > MaxRoyaltyBps {
		return &InvalidRoyaltyPercentageError{Given: newBps, Min: MinRoyaltyBps, Max: MaxRoyaltyBps}
	}
	if newReceiver == (common.Address{}) {
		return ErrInvalidRoyaltyReceiver
	}

	n.royalties[tokenID] = royaltyConfig{receiver: newReceiver, bps: newBps}
	n.chain.emit(n.addr, RoyaltyUpdated{TokenID: tokenID, Receiver: newReceiver, RoyaltyBps: newBps})
	return nil
}

// RoyaltyInfo implements the ERC-2981 view: receiver and royalty amount for
// a hypothetical sale at salePrice, amount = salePrice * bps / 10000 with
// truncating division.
func (n *KaryaNFT) RoyaltyInfo(tokenID uint64, salePrice *big.Int) (common.Address, *big.Int, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	return n.royaltyInfo(tokenID, salePrice)
}

// OwnerOf returns the current holder of the token.
func (n *KaryaNFT) OwnerOf(tokenID uint64) (common.Address, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	owner, ok := n.owners[tokenID]
	if !ok {
		return common.Address{}, &TokenNotFoundError{ID: tokenID}
	}
	return owner, nil
}

// BalanceOf returns how many tokens the address holds.
func (n *KaryaNFT) BalanceOf(addr common.Address) uint64 {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	return n.balances[addr]
}

// TokenURI returns the token's metadata URI.
func (n *KaryaNFT) TokenURI(tokenID uint64) (string, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	uri, ok := n.tokenURIs[tokenID]
	if !ok {
		return "", &TokenNotFoundError{ID: tokenID}
	}
	return uri, nil
}

// TokenByCopyright resolves a copyright id to its minted token, if any.
func (n *KaryaNFT) TokenByCopyright(copyrightID uint64) (uint64, bool) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	tokenID, ok := n.copyrightToToken[copyrightID]
	return tokenID, ok
}

// CopyrightByToken resolves a token back to its copyright id.
func (n *KaryaNFT) CopyrightByToken(tokenID uint64) (uint64, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	copyrightID, ok := n.tokenToCopyright[tokenID]
	if !ok {
		return 0, &TokenNotFoundError{ID: tokenID}
	}
	return copyrightID, nil
}

// TotalMinted returns the number of tokens minted so far.
func (n *KaryaNFT) TotalMinted() uint64 {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	return n.nextTokenID - 1
}

// Approve grants a single-token approval, ERC-721 semantics.
func (n *KaryaNFT) Approve(caller, approved common.Address, tokenID uint64) error {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()

	owner, ok := n.owners[tokenID]
	if !ok {
		return &TokenNotFoundError{ID: tokenID}
	}
	if approved == owner {
		return ErrApprovalToCurrentOwner
	}
	if caller != owner && !n.operators[owner][caller] {
		return &NotNFTOwnerError{Caller: caller, Owner: owner, TokenID: tokenID}
	}

	n.approvals[tokenID] = approved
	n.chain.emit(n.addr, Approval{Owner: owner, Approved: approved, TokenID: tokenID})
	return nil
}

// GetApproved returns the approved address for a token, zero if none.
func (n *KaryaNFT) GetApproved(tokenID uint64) (common.Address, error) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	if _, ok := n.owners[tokenID]; !ok {
		return common.Address{}, &TokenNotFoundError{ID: tokenID}
	}
	return n.approvals[tokenID], nil
}

// SetApprovalForAll grants or revokes an operator over all of the caller's
// tokens.
func (n *KaryaNFT) SetApprovalForAll(caller, operator common.Address, approved bool) {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()

	ops, ok := n.operators[caller]
	if !ok {
		ops = make(map[common.Address]bool)
		n.operators[caller] = ops
	}
	ops[operator] = approved
	n.chain.emit(n.addr, ApprovalForAll{Owner: caller, Operator: operator, Approved: approved})
}

// IsApprovedForAll reports whether operator may manage all of owner's tokens.
func (n *KaryaNFT) IsApprovedForAll(owner, operator common.Address) bool {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()
	return n.operators[owner][operator]
}

// TransferFrom moves a token. The caller must be the owner, the approved
// address, or an approved operator.
func (n *KaryaNFT) TransferFrom(caller, from, to common.Address, tokenID uint64) error {
	n.chain.mu.Lock()
	defer n.chain.mu.Unlock()

	owner, ok := n.owners[tokenID]
	if !ok {
		return &TokenNotFoundError{ID: tokenID}
	}
	if owner != from {
		return &NotNFTOwnerError{Caller: from, Owner: owner, TokenID: tokenID}
	}
	if caller != owner && n.approvals[tokenID] != caller && !n.operators[owner][caller] {
		return ErrNotApproved
	}
	return n.transfer(from, to, tokenID)
}

// royaltyInfo is the unlocked ERC-2981 view. Caller must hold the chain lock.
func (n *KaryaNFT) royaltyInfo(tokenID uint64, salePrice *big.Int) (common.Address, *big.Int, error) {
	cfg, ok := n.royalties[tokenID]
	if !ok {
		return common.Address{}, nil, &TokenNotFoundError{ID: tokenID}
	}
	amount := new(big.Int).Mul(salePrice, big.NewInt(int64(cfg.bps)))
	amount.Div(amount, big.NewInt(bpsDenominator))
	return cfg.receiver, amount, nil
}

// ownerOf is the unlocked owner lookup. Caller must hold the chain lock.
func (n *KaryaNFT) ownerOf(tokenID uint64) (common.Address, bool) {
	owner, ok := n.owners[tokenID]
	return owner, ok
}

// approvedFor reports whether operator may move the token on the owner's
// behalf. Caller must hold the chain lock.
func (n *KaryaNFT) approvedFor(operator common.Address, tokenID uint64) bool {
	owner, ok := n.owners[tokenID]
	if !ok {
		return false
	}
	return n.approvals[tokenID] == operator || n.operators[owner][operator]
}

// transfer moves the token and clears its single-token approval.
// Caller must hold the chain lock and have validated authorization.
func (n *KaryaNFT) transfer(from, to common.Address, tokenID uint64) error {
	if to == (common.Address{}) {
		return ErrTransferToZeroAddress
	}
	n.owners[tokenID] = to
	n.balances[from]--
	n.balances[to]++
	delete(n.approvals, tokenID)
	n.chain.emit(n.addr, Transfer{From: from, To: to, TokenID: tokenID})
	return nil
}
