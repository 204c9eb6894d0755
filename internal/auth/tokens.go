package auth

import (
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/id"
)

const (
	tokenIssuer   = "linkstash-server"
	tokenAudience = "linkstash-client"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// TokenService handles PASETO token generation and verification.
type TokenService struct {
	symmetricKey        paseto.V4SymmetricKey
	accessTokenDuration time.Duration
}

// NewTokenService creates a new token service with the given configuration.
func NewTokenService(keyHex string, accessDuration time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:        key,
		accessTokenDuration: accessDuration,
	}, nil
}

// GenerateAccessToken creates a new PASETO v4.local access token for the user.
// The token is encrypted and contains user claims.
func (s *TokenService) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()

	token := paseto.NewToken()

	// Standard claims.
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.accessTokenDuration))

	tokenID, err := id.Generate("token")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	// Our custom claims.
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("email", user.Email)

	encrypted := token.V4Encrypt(s.symmetricKey, nil)
	return encrypted, nil
}

// VerifyAccessToken verifies and parses a PASETO access token.
// Returns the claims if valid, or an error if they're invalid or expired.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parser := paseto.NewParser()

	// Validation rules matching the claims we set above.
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessTokenDuration
}
