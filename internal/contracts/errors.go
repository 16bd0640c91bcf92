// internal/contracts/errors.go
package contracts

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CopyrightRegistry reverts with plain string reasons. The texts are part of
// the wire contract and must stay byte-identical for clients that match on
// them.
var (
	ErrEmptyContentHash         = errors.New("Content hash cannot be empty")
	ErrEmptyTitle               = errors.New("Title cannot be empty")
	ErrContentAlreadyRegistered = errors.New("Content already registered")
	ErrRegistrationNotFound     = errors.New("Registration does not exist")
	ErrInvalidAssetType         = errors.New("Invalid asset type")
)

// KaryaNFT and KaryaMarketplace revert with custom errors. Parameterless ones
// are sentinels, parameterized ones are structs so callers can decode the
// carried values with errors.As.
var (
	ErrEmptyTokenURI          = errors.New("token URI cannot be empty")
	ErrNotApproved            = errors.New("marketplace is not approved for this token")
	ErrInvalidPrice           = errors.New("price must be greater than zero")
	ErrNotSeller              = errors.New("caller is not the listing seller")
	ErrInvalidFeeRecipient    = errors.New("fee recipient cannot be the zero address")
	ErrInvalidRoyaltyReceiver = errors.New("royalty receiver cannot be the zero address")
	ErrTransferToZeroAddress  = errors.New("transfer to the zero address")
	ErrApprovalToCurrentOwner = errors.New("approval to current owner")
	ErrNotOwner               = errors.New("caller is not the contract owner")
)

type NotCopyrightOwnerError struct {
	Caller   common.Address
	Expected common.Address
}

func (e *NotCopyrightOwnerError) Error() string {
	return fmt.Sprintf("caller %s is not the copyright owner %s", e.Caller.Hex(), e.Expected.Hex())
}

type CopyrightNotFoundError struct {
	ID uint64
}

func (e *CopyrightNotFoundError) Error() string {
	return fmt.Sprintf("copyright %d not found", e.ID)
}

type CopyrightAlreadyMintedError struct {
	CopyrightID     uint64
	ExistingTokenID uint64
}

func (e *CopyrightAlreadyMintedError) Error() string {
	return fmt.Sprintf("copyright %d already minted as token %d", e.CopyrightID, e.ExistingTokenID)
}

type InvalidRoyaltyPercentageError struct {
	Given uint16
	Min   uint16
	Max   uint16
}

func (e *InvalidRoyaltyPercentageError) Error() string {
	return fmt.Sprintf("royalty %d bps outside allowed range [%d, %d]", e.Given, e.Min, e.Max)
}

type TokenNotFoundError struct {
	ID uint64
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("token %d not found", e.ID)
}

type NotNFTOwnerError struct {
	Caller  common.Address
	Owner   common.Address
	TokenID uint64
}

func (e *NotNFTOwnerError) Error() string {
	return fmt.Sprintf("caller %s does not own token %d (owner %s)", e.Caller.Hex(), e.TokenID, e.Owner.Hex())
}

type NFTAlreadyListedError struct {
	ListingID uint64
}

func (e *NFTAlreadyListedError) Error() string {
	return fmt.Sprintf("token already listed under listing %d", e.ListingID)
}

type ListingNotFoundError struct {
	ID uint64
}

func (e *ListingNotFoundError) Error() string {
	return fmt.Sprintf("listing %d not found", e.ID)
}

type ListingNotActiveError struct {
	ID uint64
}

func (e *ListingNotActiveError) Error() string {
	return fmt.Sprintf("listing %d is not active", e.ID)
}

type InsufficientPaymentError struct {
	Required *big.Int
	Sent     *big.Int
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: required %s wei, sent %s wei", e.Required, e.Sent)
}
