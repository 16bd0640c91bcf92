// internal/contracts/registry.go
package contracts

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Registration is an immutable (creator, contentHash, metadata) tuple. Once
// written it is never updated or deleted; the registry is the root of trust
// for everything minted or sold downstream.
type Registration struct {
	ID          uint64
	Creator     common.Address
	ContentHash common.Hash
	IPFSCID     string
	Title       string
	Description string
	AssetType   AssetType
	Tags        []string
	Timestamp   time.Time
	Exists      bool
}

// CopyrightRegistry records registered works and enforces global uniqueness
// of the content hash. IDs are sequential starting at 1, scoped to the
// deployed instance.
type CopyrightRegistry struct {
	chain *Chain
	addr  common.Address

	nextID        uint64
	registrations map[uint64]*Registration
	byHash        map[common.Hash]uint64
	byCreator     map[common.Address][]uint64
	byAssetType   map[AssetType][]uint64
}

func DeployCopyrightRegistry(chain *Chain, deployer common.Address) *CopyrightRegistry {
	return &CopyrightRegistry{
		chain:         chain,
		addr:          chain.nextContractAddress(deployer),
		nextID:        1,
		registrations: make(map[uint64]*Registration),
		byHash:        make(map[common.Hash]uint64),
		byCreator:     make(map[common.Address][]uint64),
		byAssetType:   make(map[AssetType][]uint64),
	}
}

// Address returns the registry's deployed contract address.
func (r *CopyrightRegistry) Address() common.Address { return r.addr }

// RegisterCopyright writes a new registration for the caller and returns its
// sequential id. The content hash must be non-zero and never seen before,
// and the title must be non-empty.
func (r *CopyrightRegistry) RegisterCopyright(caller common.Address, contentHash common.Hash, ipfsCID, title, description string, assetType AssetType, tags []string) (uint64, error) {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()

	if contentHash == (common.Hash{}) {
		return 0, ErrEmptyContentHash
	}
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if !assetType.Valid() {
		return 0, ErrInvalidAssetType
	}
	if _, taken := r.byHash[contentHash]; taken {
		return 0, ErrContentAlreadyRegistered
	}

	id := r.nextID
	r.nextID++

	reg := &Registration{
		ID:          id,
		Creator:     caller,
		ContentHash: contentHash,
		IPFSCID:     ipfsCID,
		Title:       title,
		Description: description,
		AssetType:   assetType,
		Tags:        append([]string(nil), tags...),
		Timestamp:   r.chain.now(),
		Exists:      true,
	}

	r.registrations[id] = reg
	r.byHash[contentHash] = id
	r.byCreator[caller] = append(r.byCreator[caller], id)
	r.byAssetType[assetType] = append(r.byAssetType[assetType], id)

	r.chain.emit(r.addr, CopyrightRegistered{
		ID:          id,
		Creator:     caller,
		ContentHash: contentHash,
		IPFSCID:     ipfsCID,
		AssetType:   assetType,
	})

	return id, nil
}

// GetRegistration returns a copy of the registration with the given id.
func (r *CopyrightRegistry) GetRegistration(id uint64) (Registration, error) {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return r.getRegistration(id)
}

// GetRegistrationByHash resolves a content hash to its registration.
func (r *CopyrightRegistry) GetRegistrationByHash(hash common.Hash) (Registration, error) {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	id, ok := r.byHash[hash]
	if !ok {
		return Registration{}, ErrRegistrationNotFound
	}
	return r.getRegistration(id)
}

// IsContentRegistered reports whether the hash has been registered.
func (r *CopyrightRegistry) IsContentRegistered(hash common.Hash) bool {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	_, ok := r.byHash[hash]
	return ok
}

// GetRegistrationsByCreator returns every registration id owned by the
// address, in registration order.
func (r *CopyrightRegistry) GetRegistrationsByCreator(creator common.Address) []uint64 {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return append([]uint64(nil), r.byCreator[creator]...)
}

// GetRegistrationsByAssetType returns every registration id of the given
// asset type, in registration order.
func (r *CopyrightRegistry) GetRegistrationsByAssetType(assetType AssetType) []uint64 {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return append([]uint64(nil), r.byAssetType[assetType]...)
}

// CreatorRegistrationCount returns how many works the address has registered.
func (r *CopyrightRegistry) CreatorRegistrationCount(creator common.Address) uint64 {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return uint64(len(r.byCreator[creator]))
}

// AssetTypeRegistrationCount returns how many works of the type exist.
func (r *CopyrightRegistry) AssetTypeRegistrationCount(assetType AssetType) uint64 {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return uint64(len(r.byAssetType[assetType]))
}

// TotalRegistrations returns the total number of registrations ever made.
func (r *CopyrightRegistry) TotalRegistrations() uint64 {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	return r.nextID - 1
}

// IsCreator reports whether addr is the creator of the registration. It
// fails, rather than returning false, when the registration is absent.
func (r *CopyrightRegistry) IsCreator(id uint64, addr common.Address) (bool, error) {
	r.chain.mu.Lock()
	defer r.chain.mu.Unlock()
	reg, ok := r.registrations[id]
	if !ok {
		return false, ErrRegistrationNotFound
	}
	return reg.Creator == addr, nil
}

// getRegistration returns a defensive copy. Caller must hold the chain lock.
func (r *CopyrightRegistry) getRegistration(id uint64) (Registration, error) {
	reg, ok := r.registrations[id]
	if !ok {
		return Registration{}, ErrRegistrationNotFound
	}
	out := *reg
	out.Tags = append([]string(nil), reg.Tags...)
	return out, nil
}

// creatorOf is the cross-contract lookup KaryaNFT uses while already holding
// the chain lock.
func (r *CopyrightRegistry) creatorOf(id uint64) (common.Address, bool) {
	reg, ok := r.registrations[id]
	if !ok {
		return common.Address{}, false
	}
	return reg.Creator, true
}
