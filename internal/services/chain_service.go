// internal/services/chain_service.go
package services

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
)

// ChainService owns the embedded settlement chain and the three contracts
// deployed on it. Every other service routes its on-chain calls through the
// contract handles exposed here, so the chain's call ordering is the single
// source of truth for who owns what.
type ChainService struct {
	chain       *Chain
	registry    *contracts.CopyrightRegistry
	nft         *contracts.KaryaNFT
	marketplace *contracts.KaryaMarketplace
	deployer    common.Address
	faucetWei   *big.Int
	cfg         *config.Config
}

// Chain aliases the contracts execution environment so callers outside this
// package do not import contracts just for the type name.
type Chain = contracts.Chain

var ErrFaucetDisabled = errors.New("faucet is disabled")

// NewChainService deploys the registry, the NFT contract, and the
// marketplace in dependency order on a fresh chain.
func NewChainService(cfg *config.Config) (*ChainService, error) {
	feeRecipient, err := parseConfigAddress(cfg.Chain.FeeRecipient)
	if err != nil {
		return nil, fmt.Errorf("invalid fee recipient: %w", err)
	}

	faucetWei, ok := new(big.Int).SetString(cfg.Chain.FaucetWei, 10)
	if !ok || faucetWei.Sign() < 0 {
		return nil, fmt.Errorf("invalid faucet amount %q", cfg.Chain.FaucetWei)
	}

	// The fee recipient doubles as the deployer and marketplace owner.
	deployer := feeRecipient

	chain := contracts.NewChain()
	registry := contracts.DeployCopyrightRegistry(chain, deployer)
	nft := contracts.DeployKaryaNFT(chain, deployer, registry)
	marketplace, err := contracts.DeployKaryaMarketplace(chain, deployer, feeRecipient, nft)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy marketplace: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"registry":    registry.Address().Hex(),
		"nft":         nft.Address().Hex(),
		"marketplace": marketplace.Address().Hex(),
		"deployer":    deployer.Hex(),
	}).Info("Contracts deployed")

	return &ChainService{
		chain:       chain,
		registry:    registry,
		nft:         nft,
		marketplace: marketplace,
		deployer:    deployer,
		faucetWei:   faucetWei,
		cfg:         cfg,
	}, nil
}

func (s *ChainService) Registry() *contracts.CopyrightRegistry   { return s.registry }
func (s *ChainService) NFT() *contracts.KaryaNFT                 { return s.nft }
func (s *ChainService) Marketplace() *contracts.KaryaMarketplace { return s.marketplace }

// Deployer returns the address contracts were deployed from; it is also the
// marketplace owner and initial platform fee recipient.
func (s *ChainService) Deployer() common.Address { return s.deployer }

// BalanceOf returns an account's current wei balance.
func (s *ChainService) BalanceOf(addr common.Address) *big.Int {
	return s.chain.BalanceOf(addr)
}

// Deposit credits an account directly, for bridged or test balances.
func (s *ChainService) Deposit(addr common.Address, amount *big.Int) error {
	return s.chain.Deposit(addr, amount)
}

// Faucet credits the configured demo allowance to an address. Disabled when
// the allowance is zero.
func (s *ChainService) Faucet(addr common.Address) (*big.Int, error) {
	if s.faucetWei.Sign() == 0 {
		return nil, ErrFaucetDisabled
	}
	if err := s.chain.Deposit(addr, s.faucetWei); err != nil {
		return nil, err
	}
	return s.chain.BalanceOf(addr), nil
}

// Logs returns the full contract event log in emission order.
func (s *ChainService) Logs() []contracts.Log {
	return s.chain.Logs()
}

// LogsSince returns events from the given log index onward, for clients that
// poll incrementally.
func (s *ChainService) LogsSince(index int) []contracts.Log {
	return s.chain.LogsSince(index)
}

// Stats summarizes on-chain activity for the admin dashboard.
type ChainStats struct {
	RegistryAddress     string `json:"registry_address"`
	NFTAddress          string `json:"nft_address"`
	MarketplaceAddress  string `json:"marketplace_address"`
	FeeRecipient        string `json:"fee_recipient"`
	TotalRegistrations  uint64 `json:"total_registrations"`
	TotalMinted         uint64 `json:"total_minted"`
	TotalListings       uint64 `json:"total_listings"`
	EventCount          int    `json:"event_count"`
	FeeRecipientBalance string `json:"fee_recipient_balance_wei"`
}

func (s *ChainService) Stats() ChainStats {
	feeRecipient := s.marketplace.PlatformFeeRecipient()
	return ChainStats{
		RegistryAddress:     s.registry.Address().Hex(),
		NFTAddress:          s.nft.Address().Hex(),
		MarketplaceAddress:  s.marketplace.Address().Hex(),
		FeeRecipient:        feeRecipient.Hex(),
		TotalRegistrations:  s.registry.TotalRegistrations(),
		TotalMinted:         s.nft.TotalMinted(),
		TotalListings:       s.marketplace.TotalListings(),
		EventCount:          len(s.chain.Logs()),
		FeeRecipientBalance: s.chain.BalanceOf(feeRecipient).String(),
	}
}

func parseConfigAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q is not a hex address", s)
	}
	return common.HexToAddress(s), nil
}
