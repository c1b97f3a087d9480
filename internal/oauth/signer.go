package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"linkmcp/pkg/logging"
)

// Signer mints and verifies the proxy's own bearer access tokens. Tokens are
// compact HS256 JWTs signed with a process-wide secret; the proxy is the only
// issuer and the only verifier, so no key distribution is needed.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer with the given secret. When secret is empty a
// random one is generated, which means a restart invalidates every
// outstanding token. That is acceptable at the 1 hour token TTL but worth a
// warning in the logs.
func NewSigner(secret string) *Signer {
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic("oauth: crypto/rand unavailable: " + err.Error())
		}
		logging.Warn("OAuth", "No signing secret configured, generated an ephemeral one; tokens will not survive a restart")
		return &Signer{secret: []byte(base64.RawStdEncoding.EncodeToString(buf))}
	}
	return &Signer{secret: []byte(secret)}
}

// Mint creates a signed token carrying claims plus issued-at, expiry, and a
// random token identifier. The input map is not modified.
func (s *Signer) Mint(claims map[string]interface{}, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %v", ttl)
	}

	now := time.Now()
	all := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		all[k] = v
	}
	all["iat"] = jwt.NewNumericDate(now)
	all["exp"] = jwt.NewNumericDate(now.Add(ttl))
	all["jti"] = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, all)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks structure, signature, and expiry, and returns the claims on
// success. It fails closed: any parse or validation error yields a nil claim
// set, and claims are never returned without signature confirmation.
func (s *Signer) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
