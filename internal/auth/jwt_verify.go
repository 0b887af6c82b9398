package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Principal holds identity extracted from a validated token.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
	Claims   jwt.MapClaims
}

var (
	ErrNoToken          = errors.New("no token provided")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidIssuer    = errors.New("invalid issuer")
	ErrInvalidAudience  = errors.New("invalid audience")
	ErrMissingSub       = errors.New("missing sub claim")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
)

// TokenVerifier turns a bearer token into a Principal
type TokenVerifier interface {
	ParseAndVerifyToken(tokenString string) (*Principal, error)
}

// Verifier checks RS256 tokens against a key source
type Verifier struct {
	cfg  Config
	keys KeySource
}

// NewVerifier constructs a verifier with config and a key source.
func NewVerifier(cfg Config, keys KeySource) *Verifier {
	return &Verifier{cfg: cfg, keys: keys}
}

// ParseAndVerifyToken verifies a bearer token, validates issuer/audience/exp and returns Principal.
func (v *Verifier) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrNoToken
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce RS256
		if t.Method != jwt.SigningMethodRS256 {
			return nil, ErrInvalidToken
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrInvalidToken
		}
		return v.keys.Get(kid)
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if iss, _ := claims["iss"].(string); iss != v.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	if v.cfg.Audience != "" && !claims.VerifyAudience(v.cfg.Audience, true) {
		return nil, ErrInvalidAudience
	}
	// MapClaims.Valid does not require exp
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}
	username, _ := claims["preferred_username"].(string)

	return &Principal{
		UserID:   sub,
		Username: username,
		Roles:    extractRoles(claims),
		Claims:   claims,
	}, nil
}

// extractRoles reads Keycloak realm roles, falling back to a top-level roles claim
func extractRoles(claims jwt.MapClaims) []string {
	var raw []interface{}
	if ra, ok := claims["realm_access"].(map[string]interface{}); ok {
		raw, _ = ra["roles"].([]interface{})
	}
	if raw == nil {
		raw, _ = claims["roles"].([]interface{})
	}

	var roles []string
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
