// internal/services/copyright_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/contracts"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// CopyrightService registers works on chain and maintains the queryable
// off-chain index. The chain is authoritative; the database only mirrors it
// for search and pagination.
type CopyrightService struct {
	db       *gorm.DB
	chainSvc *ChainService
}

type RegisterCopyrightRequest struct {
	ContentHash string   `json:"content_hash" validate:"required,content_hash"`
	IPFSCID     string   `json:"ipfs_cid,omitempty" validate:"max=255"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	AssetType   string   `json:"asset_type" validate:"required"`
	Tags        []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type CopyrightResponse struct {
	ChainID        uint64   `json:"chain_id"`
	CreatorAddress string   `json:"creator_address"`
	ContentHash    string   `json:"content_hash"`
	IPFSCID        string   `json:"ipfs_cid,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	AssetType      string   `json:"asset_type"`
	Tags           []string `json:"tags,omitempty"`
	RegisteredAt   int64    `json:"registered_at"`
}

func NewCopyrightService(db *gorm.DB, chainSvc *ChainService) *CopyrightService {
	return &CopyrightService{
		db:       db,
		chainSvc: chainSvc,
	}
}

// Register validates the request, registers the work on chain, and mirrors
// the result into the index.
func (s *CopyrightService) Register(callerAddress string, req *RegisterCopyrightRequest) (*CopyrightResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	caller, err := utils.ParseAddress(callerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid caller address: %w", err)
	}

	assetType, err := contracts.ParseAssetType(req.AssetType)
	if err != nil {
		return nil, err
	}

	contentHash := common.HexToHash(req.ContentHash)

	id, err := s.chainSvc.Registry().RegisterCopyright(
		caller,
		contentHash,
		req.IPFSCID,
		req.Title,
		req.Description,
		assetType,
		req.Tags,
	)
	if err != nil {
		return nil, err
	}

	reg, err := s.chainSvc.Registry().GetRegistration(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back registration: %w", err)
	}

	// Index row mirrors chain state. A failure here is logged, not returned:
	// the registration already happened.
	row := registrationRow(reg)
	if err := s.db.Create(row).Error; err != nil {
		logrus.WithError(err).WithField("chain_id", id).Error("Failed to index registration")
	}

	return copyrightResponse(reg), nil
}

// Get returns a registration by its chain-assigned ID.
func (s *CopyrightService) Get(id uint64) (*CopyrightResponse, error) {
	reg, err := s.chainSvc.Registry().GetRegistration(id)
	if err != nil {
		return nil, err
	}
	return copyrightResponse(reg), nil
}

// GetByContentHash resolves a content fingerprint to its registration.
func (s *CopyrightService) GetByContentHash(hash string) (*CopyrightResponse, error) {
	if len(hash) != 66 || !strings.HasPrefix(hash, "0x") {
		return nil, errors.New("invalid content hash")
	}
	reg, err := s.chainSvc.Registry().GetRegistrationByHash(common.HexToHash(hash))
	if err != nil {
		return nil, err
	}
	return copyrightResponse(reg), nil
}

// CheckContent reports whether a content hash is already registered.
func (s *CopyrightService) CheckContent(hash string) bool {
	return s.chainSvc.Registry().IsContentRegistered(common.HexToHash(hash))
}

// ListByCreator returns all registrations by one creator, from the chain.
func (s *CopyrightService) ListByCreator(creatorAddress string) ([]*CopyrightResponse, error) {
	creator, err := utils.ParseAddress(creatorAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid creator address: %w", err)
	}

	ids := s.chainSvc.Registry().GetRegistrationsByCreator(creator)
	out := make([]*CopyrightResponse, 0, len(ids))
	for _, id := range ids {
		reg, err := s.chainSvc.Registry().GetRegistration(id)
		if err != nil {
			return nil, err
		}
		out = append(out, copyrightResponse(reg))
	}
	return out, nil
}

// Search pages through the off-chain index with optional full-text search
// and asset type filtering.
func (s *CopyrightService) Search(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Registration{})

	if params.AssetType != "" {
		if _, err := contracts.ParseAssetType(params.AssetType); err != nil {
			return nil, err
		}
		query = query.Where("asset_type = ?", params.AssetType)
	}

	if params.Search != "" {
		query = query.Where(
			"to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', ?)",
			params.Search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	var rows []models.Registration
	query = utils.ApplySort(query, params, []string{"created_at", "registered_at", "title", "chain_id"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	result := utils.CreatePaginationResult(rows, total, params)
	return &result, nil
}

// Stats returns per-asset-type registration counts from the chain.
func (s *CopyrightService) Stats() map[string]uint64 {
	stats := make(map[string]uint64)
	for _, t := range []contracts.AssetType{
		contracts.AssetTypeArt,
		contracts.AssetTypeMusic,
		contracts.AssetTypeWriting,
		contracts.AssetTypePhotography,
		contracts.AssetTypeDesign,
	} {
		stats[t.String()] = s.chainSvc.Registry().AssetTypeRegistrationCount(t)
	}
	stats["total"] = s.chainSvc.Registry().TotalRegistrations()
	return stats
}

func registrationRow(reg contracts.Registration) *models.Registration {
	return &models.Registration{
		ChainID:        reg.ID,
		CreatorAddress: normalizeAddress(reg.Creator.Hex()),
		ContentHash:    reg.ContentHash.Hex(),
		IPFSCID:        reg.IPFSCID,
		Title:          reg.Title,
		Description:    reg.Description,
		AssetType:      reg.AssetType.String(),
		Tags:           pq.StringArray(reg.Tags),
		RegisteredAt:   reg.Timestamp,
	}
}

func copyrightResponse(reg contracts.Registration) *CopyrightResponse {
	return &CopyrightResponse{
		ChainID:        reg.ID,
		CreatorAddress: reg.Creator.Hex(),
		ContentHash:    reg.ContentHash.Hex(),
		IPFSCID:        reg.IPFSCID,
		Title:          reg.Title,
		Description:    reg.Description,
		AssetType:      reg.AssetType.String(),
		Tags:           reg.Tags,
		RegisteredAt:   reg.Timestamp.Unix(),
	}
}
