// internal/contracts/registry_test.go
package contracts

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol    = common.HexToAddress("0x00000000000000000000000000000000000000ca")
	treasury = common.HexToAddress("0x000000000000000000000000000000000000fee5")
)

func contentHash(seed byte) common.Hash {
	var h common.Hash
	h[0] = seed
	h[31] = seed
	return h
}

// milliEther converts thousandths of an ether to wei.
func milliEther(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e15))
}

func newRegistry(t *testing.T) (*Chain, *CopyrightRegistry) {
	t.Helper()
	chain := NewChain()
	return chain, DeployCopyrightRegistry(chain, deployer)
}

func TestRegisterCopyrightAssignsSequentialIDs(t *testing.T) {
	_, reg := newRegistry(t)

	first, err := reg.RegisterCopyright(alice, contentHash(1), "QmFirst", "First Work", "desc", AssetTypeArt, []string{"abstract"})
	require.NoError(t, err)
	second, err := reg.RegisterCopyright(alice, contentHash(2), "QmSecond", "Second Work", "desc", AssetTypeMusic, nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(2), reg.TotalRegistrations())
}

func TestRegisterCopyrightStoresRegistration(t *testing.T) {
	_, reg := newRegistry(t)

	before := time.Now()
	id, err := reg.RegisterCopyright(alice, contentHash(7), "QmCID", "Test Artwork", "a test piece", AssetTypePhotography, []string{"test", "photo"})
	require.NoError(t, err)

	got, err := reg.GetRegistration(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, alice, got.Creator)
	assert.Equal(t, contentHash(7), got.ContentHash)
	assert.Equal(t, "QmCID", got.IPFSCID)
	assert.Equal(t, "Test Artwork", got.Title)
	assert.Equal(t, AssetTypePhotography, got.AssetType)
	assert.Equal(t, []string{"test", "photo"}, got.Tags)
	assert.True(t, got.Exists)
	assert.WithinDuration(t, before, got.Timestamp, 5*time.Second)
}

func TestRegisterCopyrightValidation(t *testing.T) {
	_, reg := newRegistry(t)

	_, err := reg.RegisterCopyright(alice, common.Hash{}, "QmCID", "Title", "", AssetTypeArt, nil)
	assert.ErrorIs(t, err, ErrEmptyContentHash)

	_, err = reg.RegisterCopyright(alice, contentHash(1), "QmCID", "", "", AssetTypeArt, nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = reg.RegisterCopyright(alice, contentHash(1), "QmCID", "Title", "", AssetType(9), nil)
	assert.ErrorIs(t, err, ErrInvalidAssetType)

	// nothing was written by the failed calls
	assert.Equal(t, uint64(0), reg.TotalRegistrations())
}

func TestDuplicateContentHashAlwaysReverts(t *testing.T) {
	_, reg := newRegistry(t)

	hash := contentHash(3)
	assert.False(t, reg.IsContentRegistered(hash))

	_, err := reg.RegisterCopyright(alice, hash, "QmCID", "Original", "", AssetTypeWriting, nil)
	require.NoError(t, err)
	assert.True(t, reg.IsContentRegistered(hash))

	// same creator, different creator, different metadata: all rejected
	_, err = reg.RegisterCopyright(alice, hash, "QmOther", "Copy", "", AssetTypeWriting, nil)
	assert.ErrorIs(t, err, ErrContentAlreadyRegistered)
	_, err = reg.RegisterCopyright(bob, hash, "QmOther", "Copy", "", AssetTypeArt, nil)
	assert.ErrorIs(t, err, ErrContentAlreadyRegistered)

	assert.Equal(t, uint64(1), reg.TotalRegistrations())
}

func TestGetRegistrationByHash(t *testing.T) {
	_, reg := newRegistry(t)

	id, err := reg.RegisterCopyright(alice, contentHash(5), "QmCID", "Work", "", AssetTypeDesign, nil)
	require.NoError(t, err)

	got, err := reg.GetRegistrationByHash(contentHash(5))
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = reg.GetRegistrationByHash(contentHash(6))
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRegistrationsAreImmutable(t *testing.T) {
	_, reg := newRegistry(t)

	id, err := reg.RegisterCopyright(alice, contentHash(5), "QmCID", "Work", "", AssetTypeDesign, []string{"one"})
	require.NoError(t, err)

	got, err := reg.GetRegistration(id)
	require.NoError(t, err)
	got.Title = "Mutated"
	got.Tags[0] = "mutated"

	again, err := reg.GetRegistration(id)
	require.NoError(t, err)
	assert.Equal(t, "Work", again.Title)
	assert.Equal(t, []string{"one"}, again.Tags)
}

func TestCreatorAndAssetTypeIndexes(t *testing.T) {
	_, reg := newRegistry(t)

	a1, _ := reg.RegisterCopyright(alice, contentHash(1), "Qm1", "A1", "", AssetTypeArt, nil)
	b1, _ := reg.RegisterCopyright(bob, contentHash(2), "Qm2", "B1", "", AssetTypeArt, nil)
	a2, _ := reg.RegisterCopyright(alice, contentHash(3), "Qm3", "A2", "", AssetTypeMusic, nil)

	assert.Equal(t, []uint64{a1, a2}, reg.GetRegistrationsByCreator(alice))
	assert.Equal(t, []uint64{b1}, reg.GetRegistrationsByCreator(bob))
	assert.Empty(t, reg.GetRegistrationsByCreator(carol))

	assert.Equal(t, []uint64{a1, b1}, reg.GetRegistrationsByAssetType(AssetTypeArt))
	assert.Equal(t, []uint64{a2}, reg.GetRegistrationsByAssetType(AssetTypeMusic))

	assert.Equal(t, uint64(2), reg.CreatorRegistrationCount(alice))
	assert.Equal(t, uint64(2), reg.AssetTypeRegistrationCount(AssetTypeArt))
	assert.Equal(t, uint64(0), reg.AssetTypeRegistrationCount(AssetTypeDesign))
}

func TestIsCreator(t *testing.T) {
	_, reg := newRegistry(t)

	id, err := reg.RegisterCopyright(alice, contentHash(1), "Qm1", "Work", "", AssetTypeArt, nil)
	require.NoError(t, err)

	ok, err := reg.IsCreator(id, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.IsCreator(id, bob)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = reg.IsCreator(99, alice)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestCopyrightRegisteredEvent(t *testing.T) {
	chain, reg := newRegistry(t)

	id, err := reg.RegisterCopyright(alice, contentHash(4), "QmCID", "Work", "", AssetTypeMusic, nil)
	require.NoError(t, err)

	logs := chain.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, reg.Address(), logs[0].Contract)
	assert.Equal(t, Topic(CopyrightRegistered{}), logs[0].Topic)

	ev, ok := logs[0].Event.(CopyrightRegistered)
	require.True(t, ok)
	assert.Equal(t, id, ev.ID)
	assert.Equal(t, alice, ev.Creator)
	assert.Equal(t, contentHash(4), ev.ContentHash)
	assert.Equal(t, AssetTypeMusic, ev.AssetType)
}

func TestEventTopicIsKeccakOfSignature(t *testing.T) {
	// well-known ERC-721 Transfer topic, cross-checked against the ABI
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		Topic(Transfer{}).Hex())
}
