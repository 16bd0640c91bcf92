// internal/contracts/events.go
package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Event is one entry in the chain's event log. Signature returns the
// canonical ABI signature; its keccak-256 hash is the log topic, so clients
// built against the original contract ABIs can filter these logs unchanged.
type Event interface {
	Name() string
	Signature() string
}

// Topic hashes an event signature into its log topic.
func Topic(ev Event) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(ev.Signature()))
	return common.BytesToHash(h.Sum(nil))
}

type CopyrightRegistered struct {
	ID          uint64
	Creator     common.Address
	ContentHash common.Hash
	IPFSCID     string
	AssetType   AssetType
}

func (CopyrightRegistered) Name() string { return "CopyrightRegistered" }
func (CopyrightRegistered) Signature() string {
	return "CopyrightRegistered(uint256,address,bytes32,string,uint8)"
}

type NFTMinted struct {
	TokenID     uint64
	CopyrightID uint64
	Creator     common.Address
	TokenURI    string
	RoyaltyBps  uint16
}

func (NFTMinted) Name() string { return "NFTMinted" }
func (NFTMinted) Signature() string {
	return "NFTMinted(uint256,uint256,address,string,uint96)"
}

type RoyaltyUpdated struct {
	TokenID    uint64
	Receiver   common.Address
	RoyaltyBps uint16
}

func (RoyaltyUpdated) Name() string { return "RoyaltyUpdated" }
func (RoyaltyUpdated) Signature() string {
	return "RoyaltyUpdated(uint256,address,uint96)"
}

type Transfer struct {
	From    common.Address
	To      common.Address
	TokenID uint64
}

func (Transfer) Name() string      { return "Transfer" }
func (Transfer) Signature() string { return "Transfer(address,address,uint256)" }

type Approval struct {
	Owner    common.Address
	Approved common.Address
	TokenID  uint64
}

func (Approval) Name() string      { return "Approval" }
func (Approval) Signature() string { return "Approval(address,address,uint256)" }

type ApprovalForAll struct {
	Owner    common.Address
	Operator common.Address
	Approved bool
}

func (ApprovalForAll) Name() string      { return "ApprovalForAll" }
func (ApprovalForAll) Signature() string { return "ApprovalForAll(address,address,bool)" }

type NFTListed struct {
	ListingID   uint64
	NFTContract common.Address
	TokenID     uint64
	Seller      common.Address
	Price       *big.Int
}

func (NFTListed) Name() string { return "NFTListed" }
func (NFTListed) Signature() string {
	return "NFTListed(uint256,address,uint256,address,uint256)"
}

type NFTSold struct {
	ListingID      uint64
	TokenID        uint64
	Seller         common.Address
	Buyer          common.Address
	Price          *big.Int
	PlatformFee    *big.Int
	RoyaltyAmount  *big.Int
	SellerProceeds *big.Int
}

func (NFTSold) Name() string { return "NFTSold" }
func (NFTSold) Signature() string {
	return "NFTSold(uint256,uint256,address,address,uint256,uint256,uint256,uint256)"
}

type ListingCancelled struct {
	ListingID uint64
	Seller    common.Address
}

func (ListingCancelled) Name() string      { return "ListingCancelled" }
func (ListingCancelled) Signature() string { return "ListingCancelled(uint256,address)" }

type ListingUpdated struct {
	ListingID uint64
	OldPrice  *big.Int
	NewPrice  *big.Int
}

func (ListingUpdated) Name() string      { return "ListingUpdated" }
func (ListingUpdated) Signature() string { return "ListingUpdated(uint256,uint256,uint256)" }

type PlatformFeeRecipientUpdated struct {
	OldRecipient common.Address
	NewRecipient common.Address
}

func (PlatformFeeRecipientUpdated) Name() string { return "PlatformFeeRecipientUpdated" }
func (PlatformFeeRecipientUpdated) Signature() string {
	return "PlatformFeeRecipientUpdated(address,address)"
}
