// internal/services/auth_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"gorm.io/gorm"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/utils"
)

// AuthService implements wallet sign-in: the server issues a one-time nonce,
// the wallet signs it with personal_sign, and a valid signature is exchanged
// for a JWT. No passwords are stored anywhere.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type NonceRequest struct {
	Address string `json:"address" validate:"required,eth_address"`
}

type NonceResponse struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type VerifyRequest struct {
	Address   string `json:"address" validate:"required,eth_address"`
	Signature string `json:"signature" validate:"required"`
}

type AuthResponse struct {
	Account      *models.Account `json:"account"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // in seconds
}

var (
	ErrNonceNotIssued   = errors.New("no login nonce issued for this address")
	ErrInvalidSignature = errors.New("signature does not match the address")
)

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// IssueNonce creates the account row on first contact and stores a fresh
// nonce on it. Re-requesting replaces any previous nonce.
func (s *AuthService) IssueNonce(req *NonceRequest) (*NonceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	address := normalizeAddress(req.Address)

	nonce, err := utils.GenerateLoginNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	var account models.Account
	err = s.db.Where("address = ?", address).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{Address: address, LoginNonce: nonce}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	} else {
		account.LoginNonce = nonce
		if err := s.db.Save(&account).Error; err != nil {
			return nil, fmt.Errorf("failed to store nonce: %w", err)
		}
	}

	return &NonceResponse{
		Address: address,
		Nonce:   nonce,
		Message: loginMessage(nonce),
	}, nil
}

// Verify checks a personal_sign signature over the issued nonce message and
// returns tokens on success. The nonce is cleared whether or not the
// signature matches, so each one is usable exactly once.
func (s *AuthService) Verify(req *VerifyRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	address := normalizeAddress(req.Address)

	var account models.Account
	if err := s.db.Where("address = ?", address).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNonceNotIssued
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if account.LoginNonce == "" {
		return nil, ErrNonceNotIssued
	}

	nonce := account.LoginNonce
	account.LoginNonce = ""
	now := time.Now()
	account.LastLoginAt = &now
	if err := s.db.Save(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	recovered, err := recoverSigner(loginMessage(nonce), req.Signature)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if !bytes.Equal(recovered.Bytes(), common.HexToAddress(address).Bytes()) {
		return nil, ErrInvalidSignature
	}

	return s.issueTokens(&account)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	address, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var account models.Account
	if err := s.db.Where("address = ?", normalizeAddress(address)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.issueTokens(&account)
}

func (s *AuthService) GetAccountByAddress(address string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("address = ?", normalizeAddress(address)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &account, nil
}

func (s *AuthService) issueTokens(account *models.Account) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(account.Address, account.IsAdmin, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(account.Address, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

func loginMessage(nonce string) string {
	return "Sign in to Karya\n\nNonce: " + nonce
}

// recoverSigner recovers the address behind a personal_sign signature over
// the given message.
func recoverSigner(message, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("malformed signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errors.New("signature must be 65 bytes")
	}

	// Wallets return V as 27/28, go-ethereum expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256Hash([]byte(prefixed))

	pubKey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(address)
}
